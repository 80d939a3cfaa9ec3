// Package resolver implements the query fields: one resolver per field,
// each issuing exactly one store operation and applying the field's
// failure policy.
package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/travelql/internal/db"
	"github.com/kailas-cloud/travelql/internal/domain/travel"
	"github.com/kailas-cloud/travelql/internal/logger"
)

// Config selects failure policies. FieldPolicies overrides Policy per field name.
type Config struct {
	Policy        Policy
	FieldPolicies map[string]Policy
}

// Service resolves query fields. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	repo          Repository
	policy        Policy
	fieldPolicies map[string]Policy
	recorder      Recorder
}

// New creates a Service. recorder can be nil.
func New(repo Repository, cfg Config, recorder Recorder) *Service {
	if cfg.Policy == "" {
		cfg.Policy = PolicyDegrade
	}
	policies := make(map[string]Policy, len(cfg.FieldPolicies))
	for field, p := range cfg.FieldPolicies {
		policies[field] = p
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{repo: repo, policy: cfg.Policy, fieldPolicies: policies, recorder: recorder}
}

// PolicyFor returns the failure policy applied to field.
func (s *Service) PolicyFor(field string) Policy {
	if p, ok := s.fieldPolicies[field]; ok && p != "" {
		return p
	}
	return s.policy
}

// AirlinesByCountry resolves airlinesByCountry. A degraded failure returns
// (nil, nil); zero matches return an empty slice.
func (s *Service) AirlinesByCountry(ctx context.Context, country string) ([]travel.Airline, error) {
	return byCountry(ctx, s, FieldAirlinesByCountry, country, s.repo.AirlinesByCountry)
}

// AirportsByCountry resolves airportsByCountry.
func (s *Service) AirportsByCountry(ctx context.Context, country string) ([]travel.Airport, error) {
	return byCountry(ctx, s, FieldAirportsByCountry, country, s.repo.AirportsByCountry)
}

// AirlineByKey resolves airlineByKey. A missing document is (nil, nil).
func (s *Service) AirlineByKey(ctx context.Context, id int64) (*travel.Airline, error) {
	start := time.Now()

	airline, err := s.repo.AirlineByID(ctx, id)
	if err != nil {
		if errors.Is(err, travel.ErrNotFound) {
			s.recorder.RecordResolution(FieldAirlineByKey, OutcomeNotFound, time.Since(start))
			return nil, nil
		}
		return nil, s.fail(ctx, FieldAirlineByKey, start, err, zap.Int64("id", id))
	}

	s.recorder.RecordResolution(FieldAirlineByKey, OutcomeSuccess, time.Since(start))
	return airline, nil
}

func byCountry[T any](
	ctx context.Context, s *Service, field, country string,
	fetch func(context.Context, string) ([]T, error),
) ([]T, error) {
	start := time.Now()

	items, err := fetch(ctx, country)
	if err != nil {
		return nil, s.fail(ctx, field, start, err, zap.String("country", country))
	}
	if items == nil {
		items = []T{}
	}

	outcome := OutcomeSuccess
	if len(items) == 0 {
		outcome = OutcomeEmpty
	}
	s.recorder.RecordResolution(field, outcome, time.Since(start))
	return items, nil
}

// fail applies the field's policy to a store failure. It returns nil when the
// failure degrades and a *FieldError when it is surfaced.
func (s *Service) fail(ctx context.Context, field string, start time.Time, err error, args ...zap.Field) error {
	kind := db.KindOf(err)
	s.recorder.RecordStoreError(field, kind.String())

	log := logger.FromContext(ctx).With(
		zap.String("field", field),
		zap.String("error_kind", kind.String()),
	)
	args = append(args, zap.Error(err))

	if s.PolicyFor(field) == PolicySurface {
		s.recorder.RecordResolution(field, OutcomeFailed, time.Since(start))
		log.Error("Field resolution failed", args...)
		return &FieldError{Field: field, Kind: kind, Err: err}
	}

	s.recorder.RecordResolution(field, OutcomeDegraded, time.Since(start))
	log.Warn("Field resolution degraded to null", args...)
	return nil
}
