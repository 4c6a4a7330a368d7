package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/db"
)

// Compile-time check: Client implements db.Pinger.
var _ db.Pinger = (*Client)(nil)

const defaultConnectTimeout = 10 * time.Second

// Config holds MongoDB connection parameters.
type Config struct {
	URI            string
	FallbackURI    string
	Database       string
	ConnectTimeout time.Duration
}

// Client is a connected MongoDB client bound to one database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	uri      string
}

// Connect dials the primary URI and, if it is unreachable, the fallback URI.
// A candidate only wins once it answers a primary ping.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	var errs []error
	for _, uri := range candidates(cfg) {
		c, err := dial(ctx, uri, timeout)
		if err != nil {
			logger.Warn("MongoDB connect failed", zap.String("uri", Redact(uri)), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Info("Connected to MongoDB",
			zap.String("uri", Redact(uri)),
			zap.String("database", cfg.Database),
		)
		return &Client{client: c, database: c.Database(cfg.Database), uri: uri}, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("uri is required")
	}
	return nil, &db.Error{Op: db.OpConnect, Err: errors.Join(errs...)}
}

func candidates(cfg Config) []string {
	var out []string
	for _, u := range []string{cfg.URI, cfg.FallbackURI} {
		if u != "" && (len(out) == 0 || out[0] != u) {
			out = append(out, u)
		}
	}
	return out
}

func dial(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

// Database returns the bound database handle.
func (c *Client) Database() *mongo.Database { return c.database }

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// Redact strips credentials from a connection URI for logging.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User("***")
	return u.String()
}
