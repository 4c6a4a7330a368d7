package usage

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// IsValid checks if the period is one of the supported values.
func (p Period) IsValid() bool {
	return p == PeriodDay || p == PeriodMonth || p == PeriodTotal
}

// Budget is a completion token budget snapshot.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	resetsAt        int64 // unix millis, converted to ISO 8601 at transport layer
}

// NewBudget creates a budget snapshot. A limit of 0 means unlimited.
func NewBudget(limit, remaining, resetsAt int64) Budget {
	return Budget{tokensLimit: limit, tokensRemaining: remaining, resetsAt: resetsAt}
}

// TokensLimit returns the token cap (0 if unlimited).
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left (-1 if unlimited).
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// IsExhausted reports whether a limited budget is spent.
func (b Budget) IsExhausted() bool { return b.tokensLimit > 0 && b.tokensRemaining <= 0 }

// ResetsAt returns the reset timestamp (unix millis), 0 for the total period.
func (b Budget) ResetsAt() int64 { return b.resetsAt }

// Report is a completion usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	tokensUsed  int64
	budget      Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, provider string, tokensUsed int64, b Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		tokensUsed:  tokensUsed,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the completion provider name.
func (r *Report) Provider() string { return r.provider }

// TokensUsed returns tokens consumed in the period.
func (r *Report) TokensUsed() int64 { return r.tokensUsed }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
