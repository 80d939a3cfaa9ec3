package travelql

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string

	index            string
	maxResults       int
	queryTimeout     time.Duration
	readinessTimeout time.Duration

	policy        FailurePolicy
	fieldPolicies map[string]FailurePolicy

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
// Valkey has no search module; country queries filter client-side.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance with the
// JSON and search modules.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL user for AUTH.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithIndex sets the secondary index name. Default: travel:idx.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithMaxResults caps the records returned by a country query. Default: 10000.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithQueryTimeout bounds every store call. Zero (default) leaves calls
// bounded by the caller's context only.
func WithQueryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryTimeout = d
	})
}

// WithReadinessTimeout sets how long New waits for the store. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithFailurePolicy sets the policy of every field. Default: Degrade.
func WithFailurePolicy(p FailurePolicy) Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = p
	})
}

// WithFieldPolicy overrides the failure policy of one field.
func WithFieldPolicy(field string, p FailurePolicy) Option {
	return optionFunc(func(c *clientConfig) {
		if c.fieldPolicies == nil {
			c.fieldPolicies = make(map[string]FailurePolicy)
		}
		c.fieldPolicies[field] = p
	})
}

// WithLogger enables structured logging for SDK operations, including
// degraded resolutions. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (resolution counts, durations and
// store errors) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
