package chatdb

import (
	"context"
	"time"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
	domusage "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/usage"
	healthuc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/health"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
)

// --- queryUseCase mock ---

type mockQueryUC struct {
	translateFn func(ctx context.Context, question string) nlquery.Meta
	executeFn   func(ctx context.Context, question string) (nlquery.Result, error)
	detailsFn   func(ctx context.Context, id string) (domain.Record, error)
}

func (m *mockQueryUC) Translate(ctx context.Context, question string) nlquery.Meta {
	return m.translateFn(ctx, question)
}

func (m *mockQueryUC) TranslateAndExecute(ctx context.Context, question string) (nlquery.Result, error) {
	return m.executeFn(ctx, question)
}

func (m *mockQueryUC) FlightDetails(ctx context.Context, id string) (domain.Record, error) {
	return m.detailsFn(ctx, id)
}

// --- hotelUseCase mock ---

type mockHotelUC struct {
	listFn func(ctx context.Context, county, state string, minRating float64, limit int) ([]domhotel.Review, error)
}

func (m *mockHotelUC) List(
	ctx context.Context, county, state string, minRating float64, limit int,
) ([]domhotel.Review, error) {
	return m.listFn(ctx, county, state, minRating, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	got domusage.Period
}

func (m *mockUsageUC) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	m.got = period
	if period == domusage.PeriodTotal {
		return domusage.NewReport(period, 0, 0, "ollama", 900, domusage.NewBudget(0, -1, 0))
	}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), "ollama", 300,
		domusage.NewBudget(300, 0, end.UnixMilli()))
}

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, system, user string) (CompletionResult, error)
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (CompletionResult, error) {
	return m.fn(ctx, system, user)
}
