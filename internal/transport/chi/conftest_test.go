package chi

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/travelql/internal/domain/travel"
	gqltransport "github.com/kailas-cloud/travelql/internal/transport/graphql"
	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
	"github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

// mockRepo implements resolver.Repository for tests.
type mockRepo struct {
	airlinesFn func(ctx context.Context, country string) ([]travel.Airline, error)
}

func (m *mockRepo) AirlinesByCountry(ctx context.Context, country string) ([]travel.Airline, error) {
	if m.airlinesFn != nil {
		return m.airlinesFn(ctx, country)
	}
	return []travel.Airline{}, nil
}

func (m *mockRepo) AirportsByCountry(context.Context, string) ([]travel.Airport, error) {
	return []travel.Airport{}, nil
}

func (m *mockRepo) AirlineByID(context.Context, int64) (*travel.Airline, error) {
	return nil, travel.ErrNotFound
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockIndex struct{ exists bool }

func (m *mockIndex) IndexExists(context.Context, string) (bool, error) { return m.exists, nil }

type testDeps struct {
	repo   *mockRepo
	pinger *mockPinger
	index  *mockIndex
}

func newTestServer(t *testing.T, cfg Config) (*Server, *testDeps) {
	t.Helper()
	deps := &testDeps{repo: &mockRepo{}, pinger: &mockPinger{}, index: &mockIndex{exists: true}}

	schema, err := gqltransport.NewSchema(resolver.New(deps.repo, resolver.Config{}, nil))
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	health := healthuc.New(deps.pinger, deps.index, "travel:idx")
	return NewServer(gqltransport.NewExecutor(schema), health, zap.NewNop(), cfg), deps
}
