package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolver Prometheus metrics.
var (
	ResolverRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelql",
			Name:      "resolver_requests_total",
			Help:      "Total number of field resolutions",
		},
		[]string{"field", "outcome"}, // success, empty, not_found, degraded, failed
	)

	ResolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelql",
			Name:      "resolver_duration_seconds",
			Help:      "Field resolution duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"field"},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelql",
			Name:      "store_errors_total",
			Help:      "Store failures seen by resolvers",
		},
		[]string{"field", "kind"}, // connection / query
	)
)

var resolverMetricsRegistered bool

// RegisterResolverMetrics registers Prometheus resolver metrics. Must be called once from main.
func RegisterResolverMetrics() {
	if resolverMetricsRegistered {
		return
	}
	prometheus.MustRegister(ResolverRequestsTotal)
	prometheus.MustRegister(ResolverDuration)
	prometheus.MustRegister(StoreErrorsTotal)
	resolverMetricsRegistered = true
}

// ResolverRecorder records resolver outcomes into the package collectors.
type ResolverRecorder struct{}

// RecordResolution counts one resolution of field and observes its duration.
func (ResolverRecorder) RecordResolution(field, outcome string, d time.Duration) {
	ResolverRequestsTotal.WithLabelValues(field, outcome).Inc()
	ResolverDuration.WithLabelValues(field).Observe(d.Seconds())
}

// RecordStoreError counts a store failure of the given kind while resolving field.
func (ResolverRecorder) RecordStoreError(field, kind string) {
	StoreErrorsTotal.WithLabelValues(field, kind).Inc()
}
