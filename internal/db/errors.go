package db

import "errors"

// ErrKeyNotFound is returned when a key does not exist.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failing command for error context.
const (
	OpPing    = "PING"
	OpGet     = "GET"
	OpIncrBy  = "INCRBY"
	OpExpire  = "EXPIRE"
	OpFind    = "find"
	OpQuery   = "query"
	OpConnect = "connect"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
