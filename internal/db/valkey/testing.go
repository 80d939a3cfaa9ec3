package valkey

import (
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/travelql/internal/db/redis"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{Store: redis.NewStoreForTest(c)}
}

// NewClusterStoreForTest creates a Store that scans every node of c (test-only).
func NewClusterStoreForTest(c rueidis.Client) *Store {
	return &Store{Store: redis.NewStoreForTest(c), cluster: true}
}
