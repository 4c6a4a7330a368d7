package usage

import (
	"context"
	"time"

	domusage "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/usage"
)

// Service handles completion usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (completion disabled or unlimited).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the given period.
// The total period has no boundaries and reports the monthly counters.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	var start, end int64
	if !period.IsValid() {
		period = domusage.PeriodTotal
	}
	if period != domusage.PeriodTotal {
		from, to := bounds(period, s.now().UTC())
		start, end = from.UnixMilli(), to.UnixMilli()
	}

	if s.br == nil {
		return domusage.NewReport(period, start, end, "", 0, domusage.NewBudget(0, -1, end))
	}

	var limit, used, remaining int64
	if period == domusage.PeriodDay {
		limit, used, remaining = s.br.DailyLimit(), s.br.DailyUsed(), s.br.RemainingDaily()
	} else {
		limit, used, remaining = s.br.MonthlyLimit(), s.br.MonthlyUsed(), s.br.RemainingMonthly()
	}

	return domusage.NewReport(period, start, end, s.br.Provider(), used,
		domusage.NewBudget(limit, remaining, end))
}

func bounds(period domusage.Period, now time.Time) (time.Time, time.Time) {
	if period == domusage.PeriodDay {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return day, day.Add(24 * time.Hour)
	}
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return month, month.AddDate(0, 1, 0)
}
