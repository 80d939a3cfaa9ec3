package travelql

import (
	"github.com/kailas-cloud/travelql/internal/domain/travel"
	resolveruc "github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

// Airline is a projection of an airline document. Nil fields were absent
// from the stored document.
type Airline = travel.Airline

// Airport is a projection of an airport document.
type Airport = travel.Airport

// Geo is the position of an airport.
type Geo = travel.Geo

// FailurePolicy decides what a field resolves to when the store fails.
type FailurePolicy = resolveruc.Policy

const (
	// Degrade logs the failure and returns nil with a nil error.
	Degrade FailurePolicy = resolveruc.PolicyDegrade
	// Surface returns nil and a *FieldError.
	Surface FailurePolicy = resolveruc.PolicySurface
)

// Field names accepted by WithFieldPolicy.
const (
	FieldAirlinesByCountry = resolveruc.FieldAirlinesByCountry
	FieldAirportsByCountry = resolveruc.FieldAirportsByCountry
	FieldAirlineByKey      = resolveruc.FieldAirlineByKey
)
