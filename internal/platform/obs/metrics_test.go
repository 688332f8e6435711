package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"mission-tracker-service/internal/domain"
)

func metricValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue(), true
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func TestMissionCollectorPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	c.Publish(domain.MissionSnapshot{
		State:                  domain.StateEnRouteToStart,
		DistanceToActiveTarget: 500,
	})
	c.Publish(domain.MissionSnapshot{
		State:                  domain.StateEnRouteToStart,
		DistanceToActiveTarget: 400,
	})
	c.Publish(domain.MissionSnapshot{
		State:                  domain.StateInDelivery,
		DistanceToActiveTarget: 100,
		ProgressFraction:       0.25,
	})

	if v, ok := metricValue(t, reg, "mission_snapshots_total"); !ok || v != 3 {
		t.Fatalf("snapshots_total = %v (found=%v), want 3", v, ok)
	}
	if v, ok := metricValue(t, reg, "mission_distance_to_target_meters"); !ok || v != 100 {
		t.Fatalf("distance gauge = %v (found=%v), want 100", v, ok)
	}
	if v, ok := metricValue(t, reg, "mission_progress_fraction"); !ok || v != 0.25 {
		t.Fatalf("progress gauge = %v (found=%v), want 0.25", v, ok)
	}

	// Two distinct states entered, so two transition increments total.
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var transitionTotal float64
	for _, mf := range families {
		if mf.GetName() != "mission_transitions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			transitionTotal += m.GetCounter().GetValue()
		}
	}
	if transitionTotal != 2 {
		t.Fatalf("transitions total = %v, want 2", transitionTotal)
	}
}

func TestMissionCollectorDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMissionCollector(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewMissionCollector(reg); err != nil {
		t.Fatalf("second register should reuse existing collectors: %v", err)
	}
}
