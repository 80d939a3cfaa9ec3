package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether a secondary index exists.
type IndexChecker interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}
