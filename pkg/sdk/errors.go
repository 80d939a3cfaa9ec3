package travelql

import (
	"github.com/kailas-cloud/travelql/internal/db"
	resolveruc "github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

// FieldError is a store failure surfaced under the Surface policy.
// Use errors.As() to inspect it.
type FieldError = resolveruc.FieldError

// Error codes carried by FieldError.Code().
const (
	CodeStoreUnavailable = resolveruc.CodeStoreUnavailable
	CodeStoreQueryFailed = resolveruc.CodeStoreQueryFailed
)

// ErrUnknownPolicy is returned by New for an unrecognized failure policy.
var ErrUnknownPolicy = resolveruc.ErrUnknownPolicy

// IsUnavailable reports whether err was caused by an unreachable store.
func IsUnavailable(err error) bool {
	return db.KindOf(err) == db.KindConnection
}
