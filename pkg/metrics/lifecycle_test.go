package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestLifecycleMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewLifecycleMetrics(reg)

	m.ObserveTick(50 * time.Millisecond)
	m.IncTransition("pending", "in_transit")
	m.IncTransition("pending", "in_transit")
	m.IncTickError()

	ticks := gather(t, reg, "order_lifecycle_tick_duration_seconds")
	if ticks == nil || ticks.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one tick observation, got %v", ticks)
	}

	transitions := gather(t, reg, "order_lifecycle_transitions_total")
	if transitions == nil {
		t.Fatal("transitions metric not registered")
	}
	if got := transitions.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 transitions, got %v", got)
	}
	labels := transitions.GetMetric()[0].GetLabel()
	if len(labels) != 2 || labels[0].GetValue() != "pending" || labels[1].GetValue() != "in_transit" {
		t.Fatalf("unexpected labels: %v", labels)
	}

	errors := gather(t, reg, "order_lifecycle_tick_errors_total")
	if errors == nil || errors.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one tick error, got %v", errors)
	}
}

func TestLifecycleMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *LifecycleMetrics
	m.ObserveTick(time.Second)
	m.IncTransition("pending", "in_transit")
	m.IncTickError()

	noop := NewLifecycleMetrics(nil)
	noop.ObserveTick(time.Second)
	noop.IncTransition("pending", "in_transit")
	noop.IncTickError()
}
