package travelql

import (
	"context"

	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
)

// --- resolverUseCase mock ---

type mockResolver struct {
	airlinesFn func(ctx context.Context, country string) ([]Airline, error)
	airportsFn func(ctx context.Context, country string) ([]Airport, error)
	byKeyFn    func(ctx context.Context, id int64) (*Airline, error)
}

func (m *mockResolver) AirlinesByCountry(ctx context.Context, country string) ([]Airline, error) {
	return m.airlinesFn(ctx, country)
}

func (m *mockResolver) AirportsByCountry(ctx context.Context, country string) ([]Airport, error) {
	return m.airportsFn(ctx, country)
}

func (m *mockResolver) AirlineByKey(ctx context.Context, id int64) (*Airline, error) {
	return m.byKeyFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(resolver resolverUseCase, obs *observer) *Client {
	return &Client{resolver: resolver, obs: obs}
}

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }
