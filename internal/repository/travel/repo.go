// Package travel resolves airline and airport projections against the store:
// filtered index queries by country and point lookups by derived key.
package travel

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/travelql/internal/db"
	domtravel "github.com/kailas-cloud/travelql/internal/domain/travel"
	"github.com/kailas-cloud/travelql/internal/logger"
)

// store is the consumer interface for the travel keyspace (ISP).
type store interface {
	Query(ctx context.Context, stmt *db.Statement) (*db.QueryResult, error)
	GetByKey(ctx context.Context, key string) (db.Record, error)
}

// Config controls statement construction.
type Config struct {
	Index      string
	MaxResults int
}

// Repo implements usecase/resolver.Repository.
type Repo struct {
	store      store
	index      string
	maxResults int
}

// New creates a travel repository.
func New(s store, cfg Config) *Repo {
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = db.DefaultLimit
	}
	return &Repo{store: s, index: cfg.Index, maxResults: cfg.MaxResults}
}

// AirlinesByCountry returns every airline whose country equals country, in store order.
func (r *Repo) AirlinesByCountry(ctx context.Context, country string) ([]domtravel.Airline, error) {
	return byCountry(ctx, r, domtravel.KindAirline, AirlineFields, country, airlineFromRecord)
}

// AirportsByCountry returns every airport whose country equals country, in store order.
func (r *Repo) AirportsByCountry(ctx context.Context, country string) ([]domtravel.Airport, error) {
	return byCountry(ctx, r, domtravel.KindAirport, AirportFields, country, airportFromRecord)
}

// AirlineByID loads the airline stored under DeriveKey(KindAirline, id).
// A missing document is domtravel.ErrNotFound.
func (r *Repo) AirlineByID(ctx context.Context, id int64) (*domtravel.Airline, error) {
	key := domtravel.DeriveKey(domtravel.KindAirline, id)
	rec, err := r.store.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domtravel.ErrNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	airline := airlineFromRecord(rec)
	airline.DocKey = key
	return &airline, nil
}

// CountryStatement builds the index query selecting fields of kind documents in country.
func (r *Repo) CountryStatement(kind domtravel.Kind, fields []db.Field, country string) (*db.Statement, error) {
	stmt, err := db.Select(fields...).
		From(r.index).
		Where("type", "TYPE", string(kind)).
		Where("country", "COUNTRY", country).
		KeyAs(DocKeyField).
		ScanPrefix(kind.KeyPrefix()).
		Limit(r.maxResults).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build %s statement: %w", kind, err)
	}
	return stmt, nil
}

func byCountry[T any](
	ctx context.Context, r *Repo, kind domtravel.Kind, fields []db.Field, country string,
	mapper func(db.Record) T,
) ([]T, error) {
	stmt, err := r.CountryStatement(kind, fields, country)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Debug("store query", zap.Stringer("statement", stmt))

	res, err := r.store.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s by country: %w", kind, err)
	}

	if res.Total > len(res.Records) {
		log.Warn("result truncated",
			zap.String("kind", string(kind)),
			zap.Int("total", res.Total),
			zap.Int("returned", len(res.Records)),
			zap.Int("max_results", r.maxResults),
		)
	}

	out := make([]T, 0, len(res.Records))
	for _, rec := range res.Records {
		checkDocKey(log, kind, rec)
		out = append(out, mapper(rec))
	}
	return out, nil
}

// checkDocKey warns when a matched document's key disagrees with its kind or id.
// The record is still returned.
func checkDocKey(log *zap.Logger, kind domtravel.Kind, rec db.Record) {
	key := docKeyOf(rec)
	keyKind, keyID, err := domtravel.ParseKey(key)
	switch {
	case err != nil:
		log.Warn("document key does not match its contents",
			zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
	case keyKind != kind:
		log.Warn("document key does not match its contents",
			zap.String("kind", string(kind)), zap.String("key", key))
	default:
		if id := rec.Int("id"); id != nil && *id != keyID {
			log.Warn("document key does not match its contents",
				zap.String("kind", string(kind)), zap.String("key", key), zap.Int64("id", *id))
		}
	}
}
