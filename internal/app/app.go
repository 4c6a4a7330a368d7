// Package app assembles repositories and use cases from configuration.
// It is the composition root shared by the HTTP server and the embeddable client.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/config"
	dbMongo "github.com/xannhsux/DSCI551-ChatDB4/internal/db/mongo"
	dbRedis "github.com/xannhsux/DSCI551-ChatDB4/internal/db/redis"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/db/sqlite"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
	budgetrepo "github.com/xannhsux/DSCI551-ChatDB4/internal/repository/budget"
	flightrepo "github.com/xannhsux/DSCI551-ChatDB4/internal/repository/flight"
	hotelrepo "github.com/xannhsux/DSCI551-ChatDB4/internal/repository/hotel"
	openaiCompl "github.com/xannhsux/DSCI551-ChatDB4/internal/transport/openai"
	completionuc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/completion"
	healthuc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/health"
	hoteluc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/hotel"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
	usageuc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/usage"
)

// App holds the wired services and the connections they own.
type App struct {
	Registry *query.Registry
	Limits   query.Limits
	Queries  *nlquery.Service
	Hotels   *hoteluc.Service // nil when hotels.sqlite_path is empty
	Usage    *usageuc.Service
	Health   *healthuc.Service

	mongo  *dbMongo.Client
	sqlDB  *sql.DB
	redis  *dbRedis.Store
	logger *zap.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	completer domain.Completer
}

// WithCompleter replaces the OpenAI-compatible client and enables completion.
// Budget enforcement still applies.
func WithCompleter(c domain.Completer) Option {
	return func(o *options) { o.completer = c }
}

// New connects every configured dependency and builds the services.
// MongoDB is required; SQLite, Redis and the completion service are optional.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	metrics.RegisterCompletionMetrics()
	metrics.RegisterPipelineMetrics()

	a := &App{
		Registry: query.NewRegistry(query.Collections{
			Flights:  cfg.Mongo.FlightsCollection,
			Segments: cfg.Mongo.SegmentsCollection,
		}),
		Limits: query.Limits{Default: cfg.Query.DefaultLimit, Max: cfg.Query.MaxLimit},
		logger: logger,
	}

	mc, err := dbMongo.Connect(ctx, dbMongo.Config{
		URI:            cfg.Mongo.URI,
		FallbackURI:    cfg.Mongo.FallbackURI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: time.Duration(cfg.Mongo.ConnectTimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	a.mongo = mc
	flights := flightrepo.New(mc.Database(), a.Registry)

	components := []healthuc.Component{{Name: "mongo", Pinger: flights, Critical: true}}

	if cfg.Hotels.SQLitePath != "" {
		conn, err := sqlite.Open(ctx, cfg.Hotels.SQLitePath)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("open hotels db: %w", err)
		}
		a.sqlDB = conn
		hotels := hotelrepo.New(conn)
		a.Hotels = hoteluc.New(hotels)
		components = append(components, healthuc.Component{Name: "sqlite", Pinger: hotels})
		logger.Info("Opened hotels database", zap.String("path", cfg.Hotels.SQLitePath))
	}

	if len(cfg.Redis.Addrs) > 0 {
		store, err := connectRedis(ctx, cfg.Redis)
		switch {
		case err == nil:
			a.redis = store
			components = append(components, healthuc.Component{Name: "redis", Pinger: store})
			logger.Info("Connected to Redis", zap.Strings("addrs", cfg.Redis.Addrs))
		case cfg.Redis.Optional:
			logger.Warn("Redis unavailable, budget counters kept in memory", zap.Error(err))
		default:
			a.Close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	// Pass nil interfaces, not typed nil pointers, when completion is disabled.
	var (
		gen    nlquery.CandidateGenerator
		reader usageuc.BudgetReader
	)
	if cfg.Completion.Enabled || o.completer != nil {
		budget := a.budgetTracker(ctx, cfg.Completion)
		reader = budget

		base := o.completer
		if base == nil {
			base = openaiCompl.NewCompleter(&openaiCompl.Config{
				APIKey:      cfg.Completion.APIKey,
				BaseURL:     cfg.Completion.BaseURL,
				Model:       cfg.Completion.Model,
				MaxTokens:   cfg.Completion.MaxTokens,
				Temperature: cfg.Completion.Temperature,
				Provider:    cfg.Completion.Provider,
				Logger:      logger,
			})
		}
		completer := completionuc.NewInstrumentedCompleter(
			base, cfg.Completion.Provider, cfg.Completion.Model, budget, logger,
		)
		gen = nlquery.NewGenerator(completer, a.Registry, a.Limits,
			time.Duration(cfg.Completion.TimeoutSec)*time.Second)
		components = append(components, healthuc.Component{
			Name: "completion", Pinger: healthuc.PingFunc(completer.HealthCheck),
		})
		logger.Info("Completion service configured",
			zap.String("provider", cfg.Completion.Provider),
			zap.String("model", cfg.Completion.Model),
			zap.String("base_url", cfg.Completion.BaseURL),
		)
	} else {
		logger.Info("Completion service disabled, questions use the keyword parser")
	}

	a.Queries = nlquery.New(a.Registry, flights, gen, a.Limits, logger)
	a.Usage = usageuc.New(reader)
	a.Health = healthuc.New(components...)
	return a, nil
}

// budgetTracker counts tokens even without limits so usage reports stay meaningful.
func (a *App) budgetTracker(ctx context.Context, cfg config.CompletionConfig) *completionuc.BudgetTracker {
	action := completionuc.BudgetActionWarn
	if cfg.Budget.Action == string(completionuc.BudgetActionReject) {
		action = completionuc.BudgetActionReject
	}
	budget := completionuc.NewBudgetTracker(
		cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, a.logger,
	)
	if a.redis != nil {
		budget.WithStore(ctx, budgetrepo.New(a.redis, 0, 0))
	}
	return budget
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	return store, nil
}

// Close releases every connection. It is safe to call on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			a.logger.Warn("Failed to close hotels database", zap.Error(err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			a.logger.Warn("Failed to close MongoDB client", zap.Error(err))
		}
	}
}
