package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrInvalidStmt   = errors.New("db: invalid statement")
)

// Op constants map to Valkey/Redis command names for error context.
const (
	OpPing      = "PING"
	OpIndexInfo = "FT.INFO"
	OpSearch    = "FT.SEARCH"
	OpJSONGet   = "JSON.GET"
	OpJSONMGet  = "JSON.MGET"
	OpScan      = "SCAN"
)

// ErrorKind classifies store failures so callers can decide per case
// whether to degrade or surface them.
type ErrorKind int

const (
	// KindNone means no error.
	KindNone ErrorKind = iota
	// KindNotFound is a point lookup miss. It is an outcome, not a failure.
	KindNotFound
	// KindConnection is a transport, auth or timeout failure reaching the store.
	KindConnection
	// KindQuery is a malformed statement or an execution-time failure in the store.
	KindQuery
)

// String returns the log/metric label of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with the operation name and failure kind.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Errors that are neither ErrKeyNotFound nor *Error
// are treated as query failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrKeyNotFound) {
		return KindNotFound
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return KindQuery
}
