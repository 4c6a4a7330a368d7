package chatdb

import (
	"context"
	"time"

	domusage "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains completion token usage for a time period.
// PeriodStart, PeriodEnd and Budget.ResetsAt are zero for PeriodTotal.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Provider    string
	Tokens      int64
	Budget      BudgetStatus
}

// BudgetStatus tracks token quota state. TokensRemaining is -1 when unlimited.
type BudgetStatus struct {
	TokensLimit     int64
	TokensRemaining int64
	IsExhausted     bool
	ResetsAt        time.Time
}

// Usage returns a completion usage report for the given period.
// The underlying counters are in memory, so the call cannot fail.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	b := report.Budget()

	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		PeriodStart: fromMillis(report.PeriodStart()),
		PeriodEnd:   fromMillis(report.PeriodEnd()),
		Provider:    report.Provider(),
		Tokens:      report.TokensUsed(),
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        fromMillis(b.ResetsAt()),
		},
	}
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}
