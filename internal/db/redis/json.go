package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/travelql/internal/db"
)

// GetByKey loads the whole JSON document stored at key with JSON.GET key $.
func (s *Store) GetByKey(ctx context.Context, key string) (db.Record, error) {
	cmd := s.B().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
	raw, err := s.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, WrapErr(db.OpJSONGet, err)
	}
	rec, err := DecodeDocument(raw)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, err
		}
		return nil, &db.Error{Op: db.OpJSONGet, Kind: db.KindQuery, Err: err}
	}
	return rec, nil
}

// DecodeDocument parses a JSON.GET/JSON.MGET reply for path "$" (a one-element
// array) or a legacy root reply (a bare object). Numbers are kept as json.Number.
func DecodeDocument(raw string) (db.Record, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "[]" {
		return nil, db.ErrKeyNotFound
	}

	v, err := decodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil, db.ErrKeyNotFound
		}
		v = arr[0]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode document: expected object, got %T", v)
	}
	return toRecord(m), nil
}

func decodeJSON(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err //nolint:wrapcheck // callers add context
	}
	return v, nil
}

// toRecord converts nested maps into db.Record so accessors work at every depth.
func toRecord(m map[string]any) db.Record {
	rec := make(db.Record, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			rec[k] = toRecord(nested)
			continue
		}
		rec[k] = v
	}
	return rec
}
