package db

import (
	"context"
	"time"
)

// Store is the gateway to the backing document store.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	Querier
	KeyGetter
	IndexInspector
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Querier runs parameterized statements against a secondary index.
type Querier interface {
	// Query returns matching records in store order. Failures are *Error
	// with KindQuery or KindConnection.
	Query(ctx context.Context, stmt *Statement) (*QueryResult, error)
}

// KeyGetter performs direct point lookups.
type KeyGetter interface {
	// GetByKey returns the whole document stored at key, or ErrKeyNotFound.
	GetByKey(ctx context.Context, key string) (Record, error)
}

// IndexInspector reports on secondary indexes without managing them.
type IndexInspector interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// QueryResult is the output of Query.
type QueryResult struct {
	// Total is the number of matches the store reported, which may exceed
	// len(Records) when Statement.Limit truncated the result.
	Total   int
	Records []Record
}
