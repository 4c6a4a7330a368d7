package chatdb

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	mongoURI           string
	mongoFallbackURI   string
	database           string
	flightsCollection  string
	segmentsCollection string

	completionURL     string
	completionKey     string
	completionModel   string
	completionTimeout time.Duration
	completer         Completer

	redisAddrs    []string
	redisPassword string
	dailyTokens   int64
	monthlyTokens int64

	hotelsPath string

	defaultLimit int
	maxLimit     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMongo sets the flight store URI and database. Required.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mongoURI = uri
		c.database = database
	})
}

// WithMongoFallback sets a URI tried when the primary is unreachable.
func WithMongoFallback(uri string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mongoFallbackURI = uri
	})
}

// WithCollections overrides the flight and segment collection names.
// Defaults: flights_basic, flights_segments.
func WithCollections(flights, segments string) Option {
	return optionFunc(func(c *clientConfig) {
		c.flightsCollection = flights
		c.segmentsCollection = segments
	})
}

// WithOllama enables query generation against an Ollama OpenAI-compatible endpoint.
func WithOllama(baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.completionURL = baseURL
		c.completionModel = model
	})
}

// WithOpenAI enables query generation against any OpenAI-compatible endpoint.
func WithOpenAI(baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.completionURL = baseURL
		c.completionKey = apiKey
		c.completionModel = model
	})
}

// WithCompleter enables query generation with a caller-supplied provider.
func WithCompleter(cm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cm
	})
}

// WithCompletionTimeout bounds a single generation call. Default: 30s.
func WithCompletionTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.completionTimeout = d
	})
}

// WithTokenBudget rejects generation once a daily or monthly token limit is spent;
// questions then go to the keyword parser. Zero means unlimited.
func WithTokenBudget(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = daily
		c.monthlyTokens = monthly
	})
}

// WithRedis persists token budget counters in Redis.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithHotels enables hotel review lookups from a SQLite file.
func WithHotels(sqlitePath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.hotelsPath = sqlitePath
	})
}

// WithLimits sets the default and maximum result sizes. Defaults: 20 and 1000.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
