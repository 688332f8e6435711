package services

import (
	"fmt"
	"log"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/geo"
)

// Start and destination closer than this are treated as a degenerate
// mission: the delivery leg is skipped entirely.
const minDeliveryDistanceMeters = 1.0

// MissionTracker owns the mission progress state machine. It consumes
// position samples via Advance, computes great-circle distance to the
// active waypoint, and derives state transitions and progress metrics.
//
// The tracker is the single source of truth for mission state; the
// presentation layer only renders snapshots. It holds no internal
// synchronization: all calls must be serialized by the owner (see
// MissionRunner).
type MissionTracker struct {
	cfg         domain.MissionConfig
	state       domain.MissionState
	snapshot    domain.MissionSnapshot
	initialized bool

	// Computed exactly once, at the EnRouteToStart -> InDelivery
	// transition. Never recomputed.
	initialDeliveryDistance float64
}

func NewMissionTracker() *MissionTracker {
	return &MissionTracker{
		state: domain.StateAwaitingSensor,
		snapshot: domain.MissionSnapshot{
			State:   domain.StateAwaitingSensor,
			Message: "waiting for location sensor",
		},
	}
}

// Initialize sets the mission configuration and resets the tracker to
// StateAwaitingSensor. Returns a ConfigError for a non-positive arrival
// radius.
func (t *MissionTracker) Initialize(cfg domain.MissionConfig) error {
	if cfg.ArrivalRadiusMeters <= 0 {
		return &domain.ConfigError{
			Reason: fmt.Sprintf("arrival radius must be positive, got %v", cfg.ArrivalRadiusMeters),
		}
	}

	t.cfg = cfg
	t.state = domain.StateAwaitingSensor
	t.initialDeliveryDistance = 0
	t.initialized = true
	t.snapshot = domain.MissionSnapshot{
		State:   domain.StateAwaitingSensor,
		Message: "waiting for location sensor",
	}

	return nil
}

// Config returns the mission configuration for display purposes.
func (t *MissionTracker) Config() domain.MissionConfig { return t.cfg }

// State returns the current mission state.
func (t *MissionTracker) State() domain.MissionState { return t.state }

// NotifySensorReady transitions AwaitingSensor -> Idle. Calls from any
// other state are ignored with a logged warning.
func (t *MissionTracker) NotifySensorReady() {
	if t.state != domain.StateAwaitingSensor {
		log.Printf("sensor ready ignored: state=%s", t.state)
		return
	}

	t.state = domain.StateIdle
	t.snapshot = domain.MissionSnapshot{
		State:   domain.StateIdle,
		Message: "sensor ready, awaiting start command",
	}
}

// NotifySensorFailed marks the sensor as permanently failed. Valid only
// from StateAwaitingSensor; the resulting state disables all further
// input.
func (t *MissionTracker) NotifySensorFailed(reason string) error {
	if t.state != domain.StateAwaitingSensor {
		return &domain.InvalidTransitionError{Command: "sensor failed", State: t.state}
	}

	t.state = domain.StateSensorFailed
	t.snapshot = domain.MissionSnapshot{
		State:   domain.StateSensorFailed,
		Message: "location sensor failed: " + reason,
	}

	return nil
}

// StartMission transitions Idle -> EnRouteToStart. A second call (or a
// call before the sensor is ready) fails with InvalidTransitionError and
// leaves the state untouched; the command is idempotent-safe by
// rejection, not by silent success.
func (t *MissionTracker) StartMission() error {
	if !t.initialized {
		return &domain.ConfigError{Reason: "mission not initialized"}
	}
	if t.state != domain.StateIdle {
		return &domain.InvalidTransitionError{Command: "start mission", State: t.state}
	}

	t.state = domain.StateEnRouteToStart
	t.snapshot = domain.MissionSnapshot{
		State:   domain.StateEnRouteToStart,
		Message: "en route to pickup",
	}

	return nil
}

// Advance is the per-tick update. It consumes one position sample and
// returns the refreshed snapshot. In Idle, AwaitingSensor, Completed and
// SensorFailed the sample is dropped and the last-held snapshot is
// returned unchanged.
func (t *MissionTracker) Advance(current domain.Coordinate) domain.MissionSnapshot {
	switch t.state {
	case domain.StateEnRouteToStart:
		t.advanceEnRoute(current)
	case domain.StateInDelivery:
		t.advanceDelivery(current)
	}

	return t.snapshot
}

// CurrentSnapshot returns the latest snapshot without side effects.
func (t *MissionTracker) CurrentSnapshot() domain.MissionSnapshot {
	return t.snapshot
}

func (t *MissionTracker) advanceEnRoute(current domain.Coordinate) {
	d := geo.Distance(current, t.cfg.Start)
	if d > t.cfg.ArrivalRadiusMeters {
		t.snapshot = domain.MissionSnapshot{
			State:                  domain.StateEnRouteToStart,
			DistanceToActiveTarget: d,
			Message:                fmt.Sprintf("en route to pickup: %.0f m remaining", d),
		}
		return
	}

	// Pickup reached. The delivery leg length is fixed here, once.
	t.initialDeliveryDistance = geo.Distance(t.cfg.Start, t.cfg.Destination)
	t.state = domain.StateInDelivery

	if t.initialDeliveryDistance < minDeliveryDistanceMeters {
		// Degenerate mission: start and destination coincide. Complete
		// without ever reporting an InDelivery tick.
		t.complete()
		return
	}

	t.advanceDelivery(current)
}

func (t *MissionTracker) advanceDelivery(current domain.Coordinate) {
	remaining := geo.Distance(current, t.cfg.Destination)
	if remaining <= t.cfg.ArrivalRadiusMeters {
		t.complete()
		return
	}

	progress := 0.0
	// Moving farther from the destination than the leg length clamps
	// progress to zero, never negative.
	if remaining <= t.initialDeliveryDistance {
		progress = (t.initialDeliveryDistance - remaining) / t.initialDeliveryDistance
	}
	if progress > 1 {
		progress = 1
	}

	t.snapshot = domain.MissionSnapshot{
		State:                  domain.StateInDelivery,
		DistanceToActiveTarget: remaining,
		ProgressFraction:       progress,
		Message:                fmt.Sprintf("delivering: %.0f m remaining (%.0f%%)", remaining, progress*100),
	}
}

func (t *MissionTracker) complete() {
	t.state = domain.StateCompleted
	t.snapshot = domain.MissionSnapshot{
		State:            domain.StateCompleted,
		ProgressFraction: 1,
		Message:          "mission completed",
	}
}
