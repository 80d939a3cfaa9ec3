package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/travelql/internal/db"
)

// Query runs a parameterized FT.SEARCH against the statement's index.
//
// Filters render as tag matches on parameter references (@country:{$COUNTRY});
// values travel only in the PARAMS block, so quotes and query metacharacters
// in a value cannot change the query.
func (s *Store) Query(ctx context.Context, stmt *db.Statement) (*db.QueryResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Kind: db.KindQuery, Err: err}
	}

	cmd := s.B().Arbitrary("FT.SEARCH").Args(buildSearchArgs(stmt)...).Build()
	raw, err := s.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, WrapErr(db.OpSearch, err)
	}

	res, err := parseSearchResult(raw, stmt)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Kind: db.KindQuery, Err: err}
	}
	return res, nil
}

func buildSearchArgs(stmt *db.Statement) []string {
	args := []string{stmt.Index, buildQuery(stmt.Filters)}

	args = append(args, "RETURN", strconv.Itoa(3*len(stmt.Fields)))
	for _, f := range stmt.Fields {
		args = append(args, "$."+f.Name, "AS", f.Name)
	}

	args = append(args, "LIMIT", "0", strconv.Itoa(stmt.EffectiveLimit()))

	if len(stmt.Params) > 0 {
		names := make([]string, 0, len(stmt.Params))
		for name := range stmt.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		args = append(args, "PARAMS", strconv.Itoa(2*len(names)))
		for _, name := range names {
			args = append(args, name, stmt.Params[name])
		}
	}

	return append(args, "DIALECT", "2")
}

func buildQuery(filters []db.Filter) string {
	if len(filters) == 0 {
		return "*"
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = fmt.Sprintf("@%s:{$%s}", f.Field, f.Param)
	}
	return strings.Join(parts, " ")
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage, stmt *db.Statement) (*db.QueryResult, error) {
	if len(raw) == 0 {
		return &db.QueryResult{Records: []db.Record{}}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	kinds := make(map[string]db.FieldKind, len(stmt.Fields))
	for _, f := range stmt.Fields {
		kinds[f.Name] = f.Kind
	}

	records := make([]db.Record, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		rec := parseFieldPairs(fields, kinds)
		if stmt.KeyField != "" {
			rec[stmt.KeyField] = key
		}
		records = append(records, rec)
	}

	return &db.QueryResult{Total: int(total), Records: records}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage, kinds map[string]db.FieldKind) db.Record {
	rec := make(db.Record, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		kind, ok := kinds[name]
		if !ok {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		if v, ok := DecodeValue(kind, value); ok {
			rec[name] = v
		}
	}
	return rec
}

// DecodeValue converts the textual form of a returned JSON field into the
// declared kind. It reports false for null or values of another shape, which
// callers treat as an absent field.
func DecodeValue(kind db.FieldKind, raw string) (any, bool) {
	if raw == "" && kind != db.FieldString {
		return nil, false
	}
	if raw == "null" {
		return nil, false
	}

	// Some server versions return JSON-encoded arrays for JSONPath RETURN.
	if strings.HasPrefix(raw, "[") && kind != db.FieldString {
		v, err := decodeJSON(raw)
		if err != nil {
			return nil, false
		}
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			return nil, false
		}
		b, err := json.Marshal(arr[0])
		if err != nil {
			return nil, false
		}
		raw = string(b)
	}

	switch kind {
	case db.FieldString:
		if strings.HasPrefix(raw, `"`) {
			var s string
			if err := json.Unmarshal([]byte(raw), &s); err == nil {
				return s, true
			}
		}
		return raw, true
	case db.FieldInt:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		n, ok := db.FloatToInt(f)
		if !ok {
			return nil, false
		}
		return n, true
	case db.FieldFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case db.FieldObject:
		v, err := decodeJSON(raw)
		if err != nil {
			return nil, false
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		return toRecord(m), true
	}
	return nil, false
}
