package completion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
)

// BudgetAction defines behavior when the token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request; the pipeline then uses its keyword fallback.
	BudgetActionReject BudgetAction = "reject"
)

const persistTimeout = 2 * time.Second

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// window is one rolling budget period.
type window struct {
	name   string
	layout string
	trunc  func(time.Time) time.Time
	limit  int64
	used   int64
	start  time.Time
}

func (w *window) roll(now time.Time) {
	if s := w.trunc(now); s.After(w.start) {
		w.used = 0
		w.start = s
	}
}

func (w *window) exceeded() bool { return w.limit > 0 && w.used >= w.limit }

// remaining returns tokens left, or -1 when unlimited.
func (w *window) remaining() int64 {
	if w.limit == 0 {
		return -1
	}
	return max(w.limit-w.used, 0)
}

// BudgetTracker enforces daily and monthly completion token limits.
// Check is in-memory only; Record updates memory first, then writes behind to the store.
type BudgetTracker struct {
	mu       sync.Mutex
	day      window
	month    window
	action   BudgetAction
	provider string
	store    BudgetStore
	logger   *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit means unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	now := time.Now().UTC()
	return &BudgetTracker{
		day: window{
			name: "daily", layout: "2006-01-02", trunc: truncateToDay,
			limit: dailyLimit, start: truncateToDay(now),
		},
		month: window{
			name: "monthly", layout: "2006-01", trunc: truncateToMonth,
			limit: monthlyLimit, start: truncateToMonth(now),
		},
		action:   action,
		provider: provider,
		logger:   logger,
	}
}

// WithStore attaches a persistence store and loads the current counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := time.Now().UTC()
	for _, w := range []*window{&b.day, &b.month} {
		val, err := store.Get(ctx, b.key(w, now))
		if err != nil {
			b.logger.Warn("Failed to load budget from store", zap.String("period", w.name), zap.Error(err))
			continue
		}
		w.used = val
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("monthly_used", b.month.used),
	)
	return b
}

func (b *BudgetTracker) key(w *window, t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, b.provider, w.name, t.Format(w.layout))
}

func (b *BudgetTracker) rollLocked() {
	now := time.Now().UTC()
	b.day.roll(now)
	b.month.roll(now)
}

// Check reports whether a new request is allowed.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollLocked()
	if !b.day.exceeded() && !b.month.exceeded() {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrCompletionQuotaExceeded
	}

	b.logger.Warn("Completion token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record registers consumed tokens.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollLocked()
	b.day.used += tokens
	b.month.used += tokens
	store := b.store
	now := time.Now().UTC()
	keys := []string{b.key(&b.day, now), b.key(&b.month, now)}
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Background context: the write outlives the request that consumed the tokens.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	for _, k := range keys {
		if err := store.IncrBy(ctx, k, tokens); err != nil {
			b.logger.Warn("Failed to persist budget", zap.String("key", k), zap.Error(err))
		}
	}
}

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.day.remaining()
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.month.remaining()
}

// DailyLimit returns the daily token cap.
func (b *BudgetTracker) DailyLimit() int64 { return b.day.limit }

// MonthlyLimit returns the monthly token cap.
func (b *BudgetTracker) MonthlyLimit() int64 { return b.month.limit }

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.day.used
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.month.used
}

// Provider returns the provider name the counters are keyed by.
func (b *BudgetTracker) Provider() string { return b.provider }

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
