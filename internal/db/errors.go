package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound  = errors.New("db: key not found")
	ErrInvalidQuery = errors.New("db: invalid query")
	ErrUnavailable  = errors.New("db: store unavailable")
)

// Op constants name the failed operation for error context.
const (
	OpGet       = "GET"
	OpSet       = "SET"
	OpMatch     = "MATCH"
	OpAggregate = "AGGREGATE"
	OpScan      = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
