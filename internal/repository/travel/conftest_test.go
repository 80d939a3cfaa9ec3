package travel

import (
	"context"
	"testing"

	"github.com/kailas-cloud/travelql/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	queryFn    func(ctx context.Context, stmt *db.Statement) (*db.QueryResult, error)
	getByKeyFn func(ctx context.Context, key string) (db.Record, error)
}

func (m *mockStore) Query(ctx context.Context, stmt *db.Statement) (*db.QueryResult, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, stmt)
	}
	return &db.QueryResult{Records: []db.Record{}}, nil
}

func (m *mockStore) GetByKey(ctx context.Context, key string) (db.Record, error) {
	if m.getByKeyFn != nil {
		return m.getByKeyFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{})
	return repo, ms
}

func ptr[T any](v T) *T { return &v }
