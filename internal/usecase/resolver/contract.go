package resolver

import (
	"context"
	"time"

	"github.com/kailas-cloud/travelql/internal/domain/travel"
)

// Repository defines the storage contract for the query fields.
type Repository interface {
	AirlinesByCountry(ctx context.Context, country string) ([]travel.Airline, error)
	AirportsByCountry(ctx context.Context, country string) ([]travel.Airport, error)
	// AirlineByID returns travel.ErrNotFound when no document exists.
	AirlineByID(ctx context.Context, id int64) (*travel.Airline, error)
}

// Recorder receives one observation per resolution.
type Recorder interface {
	RecordResolution(field, outcome string, d time.Duration)
	RecordStoreError(field, kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordResolution(string, string, time.Duration) {}
func (nopRecorder) RecordStoreError(string, string)                {}
