package chatdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/app"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/config"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
)

// Internal interfaces, swapped for mocks in tests.
type queryUseCase interface {
	Translate(ctx context.Context, question string) nlquery.Meta
	TranslateAndExecute(ctx context.Context, question string) (nlquery.Result, error)
	FlightDetails(ctx context.Context, id string) (domain.Record, error)
}

type hotelUseCase interface {
	List(ctx context.Context, county, state string, minRating float64, limit int) ([]domhotel.Review, error)
}

// Client is the chatdb SDK entry point.
type Client struct {
	closer    func(ctx context.Context)
	querySvc  queryUseCase
	hotelSvc  hotelUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client and connects to MongoDB (and SQLite/Redis when configured).
// The provided context bounds the initial connection attempts.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	cfg, err := cc.toConfig()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	var appOpts []app.Option
	if cc.completer != nil {
		appOpts = append(appOpts, app.WithCompleter(&completerAdapter{inner: cc.completer}))
	}

	a, err := app.New(ctx, cfg, zap.NewNop(), appOpts...)
	if err != nil {
		return nil, fmt.Errorf("chatdb: %w", err)
	}

	c := &Client{
		closer:    a.Close,
		querySvc:  a.Queries,
		healthSvc: a.Health,
		usageSvc:  a.Usage,
		obs:       obs,
	}
	// Keep the interface nil rather than a typed nil pointer.
	if a.Hotels != nil {
		c.hotelSvc = a.Hotels
	}
	return c, nil
}

func (cc *clientConfig) toConfig() (config.Config, error) {
	if cc.mongoURI == "" {
		return config.Config{}, errors.New("chatdb: mongo uri required (use WithMongo)")
	}
	if cc.maxLimit > 0 && cc.defaultLimit > cc.maxLimit {
		return config.Config{}, fmt.Errorf("chatdb: default limit %d exceeds max limit %d", cc.defaultLimit, cc.maxLimit)
	}

	cfg := config.Config{
		Mongo: config.MongoConfig{
			URI:                cc.mongoURI,
			FallbackURI:        cc.mongoFallbackURI,
			Database:           cc.database,
			FlightsCollection:  cc.flightsCollection,
			SegmentsCollection: cc.segmentsCollection,
		},
		Hotels: config.HotelsConfig{SQLitePath: cc.hotelsPath},
		Redis:  config.RedisConfig{Addrs: cc.redisAddrs, Password: cc.redisPassword},
		Completion: config.CompletionConfig{
			Enabled:    cc.completionURL != "",
			BaseURL:    cc.completionURL,
			APIKey:     cc.completionKey,
			Model:      cc.completionModel,
			TimeoutSec: timeoutSeconds(cc.completionTimeout),
			Budget: config.BudgetConfig{
				DailyTokenLimit:   cc.dailyTokens,
				MonthlyTokenLimit: cc.monthlyTokens,
				Action:            "reject",
			},
		},
		Query: config.QueryConfig{DefaultLimit: cc.defaultLimit, MaxLimit: cc.maxLimit},
	}
	switch {
	case cc.completer != nil:
		cfg.Completion.Provider = "custom"
	case cc.completionKey != "":
		cfg.Completion.Provider = "openai"
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func timeoutSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return max(int(d/time.Second), 1)
}

// Close releases all connections.
func (c *Client) Close(ctx context.Context) {
	if c.closer != nil {
		c.closer(ctx)
	}
}

// Ask translates a question and runs the resulting query.
// Generation problems never fail the call; only store errors do.
func (c *Client) Ask(ctx context.Context, question string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	ctx, usage := domain.NewContextWithUsage(ctx)
	res, err := c.querySvc.TranslateAndExecute(ctx, question)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	ans = Answer{
		Translation: translationFromMeta(res.Meta, usage),
		Records:     recordsFromDomain(res.Records),
		MatchMode:   string(res.Meta.MatchMode),
	}
	c.obs.fallback(ans.Translation)
	return ans, nil
}

// Translate returns the structured query for a question without running it.
func (c *Client) Translate(ctx context.Context, question string) Translation {
	start := time.Now()
	defer func() { c.obs.observe("translate", start, nil) }()

	ctx, usage := domain.NewContextWithUsage(ctx)
	t := translationFromMeta(c.querySvc.Translate(ctx, question), usage)
	c.obs.fallback(t)
	return t
}

// Flight returns one flight by originalId with its segments under "segmentDetails".
func (c *Client) Flight(ctx context.Context, id string) (rec Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("flight", start, err) }()

	r, err := c.querySvc.FlightDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight: %w", err)
	}
	return Record(r), nil
}

// Hotels lists hotel reviews. It requires WithHotels.
func (c *Client) Hotels(ctx context.Context, f HotelFilter) (out []Hotel, err error) {
	start := time.Now()
	defer func() { c.obs.observe("hotels", start, err) }()

	if c.hotelSvc == nil {
		return nil, errors.New("chatdb: hotels not configured (use WithHotels)")
	}
	reviews, err := c.hotelSvc.List(ctx, f.County, f.State, f.MinRating, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("hotels: %w", err)
	}
	out = make([]Hotel, len(reviews))
	for i, r := range reviews {
		out[i] = hotelFromDomain(r)
	}
	return out, nil
}

// completerAdapter wraps a public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, p domain.Prompt) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, p.System, p.User)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("%w: %w", domain.ErrCompletionProviderError, err)
	}
	return domain.CompletionResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}
