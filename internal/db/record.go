package db

import (
	"encoding/json"
	"math"
	"strconv"
)

// Record is one document (or projection of a document) as returned by the store.
// Fields absent from the underlying document are missing from the map.
type Record map[string]any

// String returns the named field as a string, or nil when absent or not a string.
func (r Record) String(name string) *string {
	switch v := r[name].(type) {
	case string:
		return &v
	case json.Number:
		s := v.String()
		return &s
	}
	return nil
}

// Int returns the named field as an integer, or nil when absent or non-integral.
func (r Record) Int(name string) *int64 {
	var n int64
	switch v := r[name].(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	case float64:
		i, ok := FloatToInt(v)
		if !ok {
			return nil
		}
		n = i
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return nil
			}
			var ok bool
			if i, ok = FloatToInt(f); !ok {
				return nil
			}
		}
		n = i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

// FloatToInt converts an integral f to int64. It reports false for fractions
// and for values outside the int64 range, which would otherwise wrap.
func FloatToInt(f float64) (int64, bool) {
	// -2^63 is exact in float64; 2^63 is the first value past MaxInt64.
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// Float returns the named field as a float, or nil when absent or not numeric.
func (r Record) Float(name string) *float64 {
	var f float64
	switch v := r[name].(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// Object returns the named field as a nested record, or nil when absent or scalar.
func (r Record) Object(name string) Record {
	switch v := r[name].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	}
	return nil
}

// Has reports whether the named field is present with a non-null value.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}
