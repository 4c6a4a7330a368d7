package completion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedCompleter wraps a Completer with budget enforcement and per-request usage.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedCompleter struct {
	inner    domain.Completer
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. budget may be nil (unlimited).
func NewInstrumentedCompleter(
	inner domain.Completer, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Complete checks the budget, delegates, and records token usage.
func (p *InstrumentedCompleter) Complete(ctx context.Context, prompt domain.Prompt) (domain.CompletionResult, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Warn("Completion budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return domain.CompletionResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := p.inner.Complete(ctx, prompt)
	duration := time.Since(start)

	usage := domain.UsageFromContext(ctx)
	if err != nil {
		usage.AddTokens(0)
		p.logger.Error("Completion request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}
	usage.AddTokens(result.TotalTokens)

	if p.budget != nil && result.TotalTokens > 0 {
		p.budget.Record(int64(result.TotalTokens))
		remaining := metrics.CompletionBudgetTokensRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Completion request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
		zap.Int("response_chars", len(result.Text)),
	)
	return result, nil
}

// HealthCheck delegates to the inner completer when it supports health checks.
func (p *InstrumentedCompleter) HealthCheck(ctx context.Context) error {
	hc, ok := p.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("completion health: %w", err)
	}
	return nil
}
