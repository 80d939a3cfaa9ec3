package travelql

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	storeErrors *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelql",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travelql",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelql",
			Subsystem: "sdk",
			Name:      "store_errors_total",
			Help:      "Store failures by operation and kind.",
		}, []string{"operation", "kind"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.storeErrors); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("travelql: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("travelql: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations. It also serves
// as the resolver recorder, so field outcomes land in the SDK metrics.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// RecordResolution counts one field resolution.
func (o *observer) RecordResolution(field, outcome string, d time.Duration) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(field, outcome).Inc()
		o.metrics.duration.WithLabelValues(field).Observe(d.Seconds())
	}
	if o.logger != nil {
		o.logger.Debug("operation completed",
			zap.String("op", field),
			zap.String("outcome", outcome),
			zap.Duration("duration", d),
		)
	}
}

// RecordStoreError counts a store failure seen while resolving field.
func (o *observer) RecordStoreError(field, kind string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.storeErrors.WithLabelValues(field, kind).Inc()
}

// observe records an operation that does not go through a resolver.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failed"
		}
		o.metrics.operations.WithLabelValues(op, outcome).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				zap.String("op", op),
				zap.Duration("duration", dur),
				zap.Error(err),
			)
		} else {
			o.logger.Debug("operation completed",
				zap.String("op", op),
				zap.Duration("duration", dur),
			)
		}
	}
}
