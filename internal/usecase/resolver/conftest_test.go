package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/travelql/internal/domain/travel"
	"github.com/kailas-cloud/travelql/internal/logger"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	airlinesFn  func(ctx context.Context, country string) ([]travel.Airline, error)
	airportsFn  func(ctx context.Context, country string) ([]travel.Airport, error)
	airlineByFn func(ctx context.Context, id int64) (*travel.Airline, error)
}

func (m *mockRepo) AirlinesByCountry(ctx context.Context, country string) ([]travel.Airline, error) {
	if m.airlinesFn != nil {
		return m.airlinesFn(ctx, country)
	}
	return []travel.Airline{}, nil
}

func (m *mockRepo) AirportsByCountry(ctx context.Context, country string) ([]travel.Airport, error) {
	if m.airportsFn != nil {
		return m.airportsFn(ctx, country)
	}
	return []travel.Airport{}, nil
}

func (m *mockRepo) AirlineByID(ctx context.Context, id int64) (*travel.Airline, error) {
	if m.airlineByFn != nil {
		return m.airlineByFn(ctx, id)
	}
	return nil, travel.ErrNotFound
}

type resolution struct {
	field   string
	outcome string
}

// mockRecorder captures recorded outcomes.
type mockRecorder struct {
	mu          sync.Mutex
	resolutions []resolution
	storeErrors []string
}

func (m *mockRecorder) RecordResolution(field, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions = append(m.resolutions, resolution{field: field, outcome: outcome})
}

func (m *mockRecorder) RecordStoreError(field, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErrors = append(m.storeErrors, field+":"+kind)
}

func (m *mockRecorder) last(t *testing.T) resolution {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resolutions) == 0 {
		t.Fatal("no resolution recorded")
	}
	return m.resolutions[len(m.resolutions)-1]
}

func newTestService(t *testing.T, cfg Config) (*Service, *mockRepo, *mockRecorder) {
	t.Helper()
	repo := &mockRepo{}
	rec := &mockRecorder{}
	return New(repo, cfg, rec), repo, rec
}

// observedContext returns a context carrying a logger whose entries are captured.
func observedContext(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.ContextWithLogger(context.Background(), zap.New(core)), logs
}

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64  { return &n }
