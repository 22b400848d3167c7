package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts collection operations by kind, backend, operation and
// outcome. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg if reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_store_operations_total",
			Help: "Collection operations by outcome",
		}, []string{"kind", "backend", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hearth_store_operation_seconds",
			Help:    "Collection operation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"kind", "backend", "op"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.latency)
	}
	return m
}

// Operations exposes the counter, mainly for tests.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

func (m *Metrics) observe(kind string, backend Backend, op string, start time.Time, failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.operations.WithLabelValues(kind, string(backend), op, outcome).Inc()
	m.latency.WithLabelValues(kind, string(backend), op).Observe(time.Since(start).Seconds())
}
