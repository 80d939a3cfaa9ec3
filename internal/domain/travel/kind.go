// Package travel holds the read-only projections of the travel sample dataset:
// airlines and airports stored as JSON documents in one shared keyspace.
package travel

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the document type discriminator stored in each document's "type" field.
type Kind string

const (
	// KindAirline marks airline documents.
	KindAirline Kind = "airline"
	// KindAirport marks airport documents.
	KindAirport Kind = "airport"
)

// Kinds lists every entity kind served by the resolver set.
var Kinds = []Kind{KindAirline, KindAirport}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAirline, KindAirport:
		return true
	}
	return false
}

// KeyPrefix returns the store key prefix shared by all documents of kind k.
func (k Kind) KeyPrefix() string {
	return string(k) + "_"
}

// DeriveKey returns the point-lookup key of a document: "<kind>_<decimal id>".
// It is the only key scheme; docKey of every projected entity equals it.
func DeriveKey(kind Kind, id int64) string {
	return kind.KeyPrefix() + strconv.FormatInt(id, 10)
}

// ParseKey splits a document key into its kind and numeric id.
func ParseKey(key string) (Kind, int64, error) {
	kindPart, idPart, ok := strings.Cut(key, "_")
	if !ok {
		return "", 0, fmt.Errorf("key %q: missing separator: %w", key, ErrInvalidKey)
	}
	kind := Kind(kindPart)
	if !kind.Valid() {
		return "", 0, fmt.Errorf("key %q: unknown kind %q: %w", key, kindPart, ErrInvalidKey)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("key %q: %w: %w", key, ErrInvalidKey, err)
	}
	return kind, id, nil
}
