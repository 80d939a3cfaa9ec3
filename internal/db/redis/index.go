package redis

import (
	"context"

	"github.com/kailas-cloud/travelql/internal/db"
)

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.B().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.Do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, WrapErr(db.OpIndexInfo, err)
	}
	return true, nil
}
