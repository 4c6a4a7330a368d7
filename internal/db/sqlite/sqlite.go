package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/xannhsux/DSCI551-ChatDB4/internal/db"
)

// DriverName is the database/sql driver used for hotel data.
const DriverName = "sqlite3"

// DSN builds a read-only connection string for path.
func DSN(path string) string {
	q := url.Values{}
	q.Set("mode", "ro")
	q.Set("_busy_timeout", "5000")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the database read-only and verifies it is reachable.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	conn, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpPing, Err: err}
	}
	return conn, nil
}
