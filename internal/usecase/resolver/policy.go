package resolver

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/travelql/internal/db"
)

// Field names of the query root.
const (
	FieldAirlinesByCountry = "airlinesByCountry"
	FieldAirportsByCountry = "airportsByCountry"
	FieldAirlineByKey      = "airlineByKey"
)

// Fields lists every query field served by the resolver set.
var Fields = []string{FieldAirlinesByCountry, FieldAirportsByCountry, FieldAirlineByKey}

// Resolution outcomes, used as metric labels.
const (
	OutcomeSuccess  = "success"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Policy decides what a field resolves to when the store fails.
type Policy string

const (
	// PolicyDegrade logs the failure and resolves the field to null.
	PolicyDegrade Policy = "degrade"
	// PolicySurface resolves the field to null and reports a FieldError.
	PolicySurface Policy = "surface"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown failure policy")

// ParsePolicy parses a policy name. The empty string is PolicyDegrade.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyDegrade:
		return PolicyDegrade, nil
	case PolicySurface:
		return PolicySurface, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Error codes reported to clients for surfaced failures.
const (
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeStoreQueryFailed = "STORE_QUERY_FAILED"
)

// FieldError is a store failure surfaced for one field.
// Its message never includes the underlying error.
type FieldError struct {
	Field string
	Kind  db.ErrorKind
	Err   error
}

func (e *FieldError) Error() string {
	if e.Kind == db.KindConnection {
		return "store unavailable"
	}
	return "store query failed"
}

func (e *FieldError) Unwrap() error { return e.Err }

// Code returns the client-facing error code.
func (e *FieldError) Code() string {
	if e.Kind == db.KindConnection {
		return CodeStoreUnavailable
	}
	return CodeStoreQueryFailed
}
