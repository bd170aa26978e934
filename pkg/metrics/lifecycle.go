package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records the order lifecycle worker's activity.
type LifecycleMetrics struct {
	tickDuration prometheus.Histogram
	transitions  *prometheus.CounterVec
	tickErrors   prometheus.Counter
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_lifecycle_tick_duration_seconds",
		Help:    "Duration of order lifecycle ticks in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_lifecycle_transitions_total",
		Help: "Order status transitions applied by the lifecycle worker.",
	}, []string{"from", "to"})
	tickErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_lifecycle_tick_errors_total",
		Help: "Lifecycle ticks that ended in an error.",
	})
	reg.MustRegister(tickDuration, transitions, tickErrors)
	return &LifecycleMetrics{
		tickDuration: tickDuration,
		transitions:  transitions,
		tickErrors:   tickErrors,
	}
}

// ObserveTick records the duration of one lifecycle pass.
func (m *LifecycleMetrics) ObserveTick(duration time.Duration) {
	if m == nil || m.tickDuration == nil {
		return
	}
	m.tickDuration.Observe(duration.Seconds())
}

// IncTransition counts one applied status transition.
func (m *LifecycleMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// IncTickError counts one failed lifecycle pass.
func (m *LifecycleMetrics) IncTickError() {
	if m == nil || m.tickErrors == nil {
		return
	}
	m.tickErrors.Inc()
}
