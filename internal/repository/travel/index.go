package travel

import (
	"github.com/kailas-cloud/travelql/internal/db"
	domtravel "github.com/kailas-cloud/travelql/internal/domain/travel"
)

// DefaultIndex is the name of the secondary index over the travel keyspace.
const DefaultIndex = "travel:idx"

// IndexDefinition returns the index the repository queries. It is never
// created here; operators create it from the rendered FT.CREATE.
func IndexDefinition(name string) (*db.IndexDefinition, error) {
	prefixes := make([]string, len(domtravel.Kinds))
	for i, k := range domtravel.Kinds {
		prefixes[i] = k.KeyPrefix()
	}
	return db.NewIndex(name).
		OnJSON().
		Prefix(prefixes...).
		Tag("$.type", "type").
		Tag("$.country", "country").
		Numeric("$.id", "id").
		Build()
}
