package services

import (
	"errors"
	"math"
	"testing"

	"mission-tracker-service/internal/domain"
)

var (
	pickup  = domain.Coordinate{Lat: 37.4776, Lon: 126.8612}
	dropoff = domain.Coordinate{Lat: 37.4775, Lon: 126.8624}
)

// 500 m due north of the pickup point (1 deg latitude = ~111195 m on the
// spherical model).
var farFromPickup = domain.Coordinate{Lat: pickup.Lat + 500.0/111194.9265, Lon: pickup.Lon}

func newStartedTracker(t *testing.T, cfg domain.MissionConfig) *MissionTracker {
	t.Helper()

	tr := NewMissionTracker()
	if err := tr.Initialize(cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	tr.NotifySensorReady()
	if err := tr.StartMission(); err != nil {
		t.Fatalf("start mission: %v", err)
	}
	return tr
}

func TestInitializeRejectsNonPositiveRadius(t *testing.T) {
	tr := NewMissionTracker()

	for _, radius := range []float64{0, -5} {
		err := tr.Initialize(domain.MissionConfig{
			Start:               pickup,
			Destination:         dropoff,
			ArrivalRadiusMeters: radius,
		})
		var cfgErr *domain.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("radius=%v: got %v, want ConfigError", radius, err)
		}
	}
}

func TestStartBeforeSensorReadyRejected(t *testing.T) {
	tr := NewMissionTracker()
	if err := tr.Initialize(domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	err := tr.StartMission()
	var invErr *domain.InvalidTransitionError
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want InvalidTransitionError", err)
	}
	if tr.State() != domain.StateAwaitingSensor {
		t.Fatalf("state = %s, want awaiting_sensor", tr.State())
	}
}

func TestDoubleStartRejected(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10})

	err := tr.StartMission()
	var invErr *domain.InvalidTransitionError
	if !errors.As(err, &invErr) {
		t.Fatalf("second start: got %v, want InvalidTransitionError", err)
	}
	if tr.State() != domain.StateEnRouteToStart {
		t.Fatalf("state = %s, want en_route_to_start", tr.State())
	}
}

func TestEndToEndScenario(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10})

	// Far from the pickup: still en route, distance ~500 m.
	snap := tr.Advance(farFromPickup)
	if snap.State != domain.StateEnRouteToStart {
		t.Fatalf("state = %s, want en_route_to_start", snap.State)
	}
	if math.Abs(snap.DistanceToActiveTarget-500) > 5 {
		t.Fatalf("distance = %v, want ~500", snap.DistanceToActiveTarget)
	}

	// At the pickup: transition to the delivery leg with zero progress.
	snap = tr.Advance(pickup)
	if snap.State != domain.StateInDelivery {
		t.Fatalf("state = %s, want in_delivery", snap.State)
	}
	if snap.ProgressFraction != 0 {
		t.Fatalf("progress = %v, want 0", snap.ProgressFraction)
	}
	if snap.DistanceToActiveTarget <= 0 {
		t.Fatalf("distance to drop-off = %v, want > 0", snap.DistanceToActiveTarget)
	}

	// At the drop-off: completed.
	snap = tr.Advance(dropoff)
	if snap.State != domain.StateCompleted {
		t.Fatalf("state = %s, want completed", snap.State)
	}
	if snap.ProgressFraction != 1 {
		t.Fatalf("progress = %v, want 1", snap.ProgressFraction)
	}
}

func TestDegenerateMissionSkipsDelivery(t *testing.T) {
	// Start and destination coincide: the first sample inside the arrival
	// radius must complete the mission without an InDelivery snapshot.
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: pickup, ArrivalRadiusMeters: 10})

	snap := tr.Advance(pickup)
	if snap.State != domain.StateCompleted {
		t.Fatalf("state = %s, want completed", snap.State)
	}
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 5})

	snap := tr.Advance(pickup)
	if snap.State != domain.StateInDelivery {
		t.Fatalf("state = %s, want in_delivery", snap.State)
	}

	// Walk the longitude toward the destination; progress must never
	// decrease and must stay within [0,1].
	prev := snap.ProgressFraction
	for _, frac := range []float64{0.2, 0.4, 0.6, 0.8} {
		p := domain.Coordinate{
			Lat: pickup.Lat + (dropoff.Lat-pickup.Lat)*frac,
			Lon: pickup.Lon + (dropoff.Lon-pickup.Lon)*frac,
		}
		snap = tr.Advance(p)
		if snap.State != domain.StateInDelivery {
			t.Fatalf("frac=%v: state = %s, want in_delivery", frac, snap.State)
		}
		if snap.ProgressFraction < prev {
			t.Fatalf("frac=%v: progress regressed %v -> %v", frac, prev, snap.ProgressFraction)
		}
		if snap.ProgressFraction < 0 || snap.ProgressFraction > 1 {
			t.Fatalf("frac=%v: progress out of range: %v", frac, snap.ProgressFraction)
		}
		prev = snap.ProgressFraction
	}
}

func TestProgressClampedToZeroWhenMovingAway(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 5})
	tr.Advance(pickup)

	// Past the start, away from the destination: remaining exceeds the
	// initial leg length.
	snap := tr.Advance(farFromPickup)
	if snap.State != domain.StateInDelivery {
		t.Fatalf("state = %s, want in_delivery", snap.State)
	}
	if snap.ProgressFraction != 0 {
		t.Fatalf("progress = %v, want 0", snap.ProgressFraction)
	}
}

func TestSensorFailureScenario(t *testing.T) {
	tr := NewMissionTracker()
	if err := tr.Initialize(domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if err := tr.NotifySensorFailed("permission denied"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	snap := tr.CurrentSnapshot()
	if snap.State != domain.StateSensorFailed {
		t.Fatalf("state = %s, want sensor_failed", snap.State)
	}
	if snap.Message != "location sensor failed: permission denied" {
		t.Fatalf("message = %q", snap.Message)
	}

	err := tr.StartMission()
	var invErr *domain.InvalidTransitionError
	if !errors.As(err, &invErr) {
		t.Fatalf("start after failure: got %v, want InvalidTransitionError", err)
	}
}

func TestSensorFailedRejectedOutsideAwaiting(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10})

	err := tr.NotifySensorFailed("late failure")
	var invErr *domain.InvalidTransitionError
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want InvalidTransitionError", err)
	}
	if tr.State() != domain.StateEnRouteToStart {
		t.Fatalf("state = %s, want en_route_to_start", tr.State())
	}
}

func TestAdvanceIsNoOpOutsideActiveLegs(t *testing.T) {
	tr := NewMissionTracker()
	if err := tr.Initialize(domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// AwaitingSensor: samples are dropped.
	before := tr.CurrentSnapshot()
	after := tr.Advance(farFromPickup)
	if after != before {
		t.Fatalf("awaiting_sensor: snapshot changed: %+v -> %+v", before, after)
	}

	// Idle: still dropped.
	tr.NotifySensorReady()
	before = tr.CurrentSnapshot()
	after = tr.Advance(farFromPickup)
	if after != before {
		t.Fatalf("idle: snapshot changed: %+v -> %+v", before, after)
	}

	// Completed: dropped as well.
	if err := tr.StartMission(); err != nil {
		t.Fatalf("start mission: %v", err)
	}
	tr.Advance(pickup)
	tr.Advance(dropoff)
	before = tr.CurrentSnapshot()
	if before.State != domain.StateCompleted {
		t.Fatalf("state = %s, want completed", before.State)
	}
	after = tr.Advance(farFromPickup)
	if after != before {
		t.Fatalf("completed: snapshot changed: %+v -> %+v", before, after)
	}
}

func TestSensorReadyIgnoredOutsideAwaiting(t *testing.T) {
	tr := newStartedTracker(t, domain.MissionConfig{Start: pickup, Destination: dropoff, ArrivalRadiusMeters: 10})

	tr.NotifySensorReady()
	if tr.State() != domain.StateEnRouteToStart {
		t.Fatalf("state = %s, want en_route_to_start", tr.State())
	}
}
