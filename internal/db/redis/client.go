package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/travelql/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	// QueryTimeout bounds every store call when positive. Zero means the
	// call waits as long as the caller's context allows.
	QueryTimeout time.Duration
}

// Store implements db.Store via rueidis for Redis 8+ (or Redis Stack) with
// the JSON and search modules.
type Store struct {
	client       rueidis.Client
	queryTimeout time.Duration
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return NewStoreFromClient(client, cfg.QueryTimeout), nil
}

// NewStoreFromClient wraps an existing rueidis client.
func NewStoreFromClient(c rueidis.Client, queryTimeout time.Duration) *Store {
	return &Store{client: c, queryTimeout: queryTimeout}
}

// Client returns the underlying rueidis client.
func (s *Store) Client() rueidis.Client {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", WrapErr(db.OpPing, err))
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Do runs cmd under the configured query timeout.
func (s *Store) Do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	ctx, cancel := s.QueryContext(ctx)
	defer cancel()
	return s.client.Do(ctx, cmd)
}

// QueryContext derives the context of one store call from ctx, bounded by
// the configured query timeout when it is positive.
func (s *Store) QueryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

// B returns the rueidis command builder.
func (s *Store) B() rueidis.Builder {
	return s.client.B()
}

// WrapErr classifies a rueidis error into a *db.Error.
// Server replies are query failures except auth rejections; everything else
// (dial errors, closed client, deadlines) is a connection failure.
func WrapErr(op string, err error) error {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return err
	}
	return &db.Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) db.ErrorKind {
	if _, ok := rueidis.IsRedisErr(err); !ok {
		return db.KindConnection
	}
	for _, prefix := range authErrors {
		if isRedisErr(err, prefix) {
			return db.KindConnection
		}
	}
	return db.KindQuery
}

var authErrors = []string{"NOAUTH", "WRONGPASS", "NOPERM", "LOADING"}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return containsIgnoreCase(re.Error(), substr)
}

func containsIgnoreCase(s, substr string) bool {
	ls := len(s)
	lsub := len(substr)
	if lsub > ls {
		return false
	}
	for i := 0; i <= ls-lsub; i++ {
		match := true
		for j := 0; j < lsub; j++ {
			sc := s[i+j]
			tc := substr[j]
			if sc >= 'A' && sc <= 'Z' {
				sc += 'a' - 'A'
			}
			if tc >= 'A' && tc <= 'Z' {
				tc += 'a' - 'A'
			}
			if sc != tc {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
