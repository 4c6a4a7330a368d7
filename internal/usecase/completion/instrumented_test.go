package completion

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCompletionMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockCompleter struct {
	result    domain.CompletionResult
	err       error
	calls     int
	healthErr error
}

func (m *mockCompleter) Complete(_ context.Context, _ domain.Prompt) (domain.CompletionResult, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockCompleter) HealthCheck(_ context.Context) error { return m.healthErr }

type plainCompleter struct{}

func (plainCompleter) Complete(_ context.Context, _ domain.Prompt) (domain.CompletionResult, error) {
	return domain.CompletionResult{Text: "{}"}, nil
}

// --- Tests ---

func TestInstrumentedCompleter_Success(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: `{"collection":"flights"}`, TotalTokens: 120}}
	p := NewInstrumentedCompleter(inner, "test", "llama3", nil, zap.NewNop())

	res, err := p.Complete(context.Background(), domain.Prompt{User: "Q: flights\nA:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != `{"collection":"flights"}` {
		t.Errorf("text = %q", res.Text)
	}
}

func TestInstrumentedCompleter_AddsUsageToContext(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: "{}", TotalTokens: 75}}
	p := NewInstrumentedCompleter(inner, "test-usage", "llama3", nil, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := p.Complete(ctx, domain.Prompt{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.TotalTokens != 75 || !usage.Used {
		t.Errorf("usage = %+v", usage)
	}
}

func TestInstrumentedCompleter_Error(t *testing.T) {
	inner := &mockCompleter{err: domain.ErrCompletionProviderError}
	p := NewInstrumentedCompleter(inner, "test-err", "llama3", nil, zap.NewNop())

	_, err := p.Complete(context.Background(), domain.Prompt{})
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Fatalf("expected ErrCompletionProviderError, got %v", err)
	}
}

func TestInstrumentedCompleter_BudgetRejection(t *testing.T) {
	budget := NewBudgetTracker("test-budget", 100, 0, BudgetActionReject, zap.NewNop())
	budget.Record(100)

	inner := &mockCompleter{result: domain.CompletionResult{Text: "{}"}}
	p := NewInstrumentedCompleter(inner, "test-budget", "llama3", budget, zap.NewNop())

	_, err := p.Complete(context.Background(), domain.Prompt{})
	if !errors.Is(err, domain.ErrCompletionQuotaExceeded) {
		t.Fatalf("expected ErrCompletionQuotaExceeded, got %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("provider must not be called when over budget, got %d calls", inner.calls)
	}
}

func TestInstrumentedCompleter_RecordsBudget(t *testing.T) {
	budget := NewBudgetTracker("test-record", 1000000, 10000000, BudgetActionReject, zap.NewNop())
	inner := &mockCompleter{result: domain.CompletionResult{Text: "{}", PromptTokens: 400, TotalTokens: 500}}
	p := NewInstrumentedCompleter(inner, "test-record", "llama3", budget, zap.NewNop())

	initialDaily := budget.RemainingDaily()
	initialMonthly := budget.RemainingMonthly()

	if _, err := p.Complete(context.Background(), domain.Prompt{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := budget.RemainingDaily(); got != initialDaily-500 {
		t.Errorf("daily remaining %d -> %d, want -500", initialDaily, got)
	}
	if got := budget.RemainingMonthly(); got != initialMonthly-500 {
		t.Errorf("monthly remaining %d -> %d, want -500", initialMonthly, got)
	}
}

func TestInstrumentedCompleter_HealthCheck(t *testing.T) {
	inner := &mockCompleter{healthErr: errors.New("connection refused")}
	p := NewInstrumentedCompleter(inner, "test", "llama3", nil, zap.NewNop())
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("expected health error to propagate")
	}

	p = NewInstrumentedCompleter(plainCompleter{}, "test", "llama3", nil, zap.NewNop())
	if err := p.HealthCheck(context.Background()); err != nil {
		t.Errorf("completer without health check must report healthy, got %v", err)
	}
}
