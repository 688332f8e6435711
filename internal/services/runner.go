package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/ports"
)

// MissionRunner drives the single logical tick loop the tracker requires.
// It polls the location provider, feeds fresh samples into the tracker,
// and fans the resulting snapshot out to the registered sinks.
//
// The runner also serves as the external mutual-exclusion wrapper around
// the tracker: every tracker call (tick, start command, snapshot read)
// goes through its mutex.
type MissionRunner struct {
	mu       sync.Mutex
	tracker  *MissionTracker
	provider ports.LocationProvider
	sinks    []ports.SnapshotSink

	runID        string
	tickInterval time.Duration

	// Provider failure is permanent; once observed, the loop stops
	// consuming samples for the rest of the mission.
	providerDown bool
}

func NewMissionRunner(
	tracker *MissionTracker,
	provider ports.LocationProvider,
	tickInterval time.Duration,
	sinks ...ports.SnapshotSink,
) *MissionRunner {
	return &MissionRunner{
		tracker:      tracker,
		provider:     provider,
		sinks:        sinks,
		runID:        uuid.NewString(),
		tickInterval: tickInterval,
	}
}

// RunID identifies this mission run in snapshots and logs.
func (r *MissionRunner) RunID() string { return r.runID }

// AttachSinks registers additional snapshot sinks. Must be called before
// the tick loop starts.
func (r *MissionRunner) AttachSinks(sinks ...ports.SnapshotSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sinks...)
}

// Config returns the tracked mission's configuration.
func (r *MissionRunner) Config() domain.MissionConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracker.Config()
}

// Start issues the user start command. The tracker rejects it with a
// typed error unless the mission is Idle.
func (r *MissionRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.tracker.StartMission(); err != nil {
		return err
	}
	r.publishLocked(r.tracker.CurrentSnapshot())
	return nil
}

// Snapshot returns the latest mission snapshot.
func (r *MissionRunner) Snapshot() domain.MissionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracker.CurrentSnapshot()
}

// Run executes the tick loop until the context is canceled. A mission
// that never reaches its waypoints simply stays where it is; there is no
// internal timeout.
func (r *MissionRunner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	log.Printf("mission runner started run_id=%s tick=%s", r.runID, r.tickInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("mission runner stopped run_id=%s", r.runID)
			return ctx.Err()
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs one poll-and-advance cycle. Exposed so hosts with their
// own frame loop (and tests) can drive the runner directly.
func (r *MissionRunner) Tick(ctx context.Context) {
	status, reason := r.provider.Status(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.providerDown {
		return
	}

	switch status {
	case ports.StatusNotStarted, ports.StatusInitializing:
		return

	case ports.StatusFailed:
		r.providerDown = true
		if err := r.tracker.NotifySensorFailed(reason); err != nil {
			// Failure after the mission left AwaitingSensor: the tracker
			// keeps its state and the mission stalls permanently.
			log.Printf("provider failed mid-mission run_id=%s state=%s reason=%q",
				r.runID, r.tracker.State(), reason)
			return
		}
		r.publishLocked(r.tracker.CurrentSnapshot())

	case ports.StatusRunning:
		// The ready signal always lands before the first sample of the
		// same tick, so samples can never race ahead of readiness.
		if r.tracker.State() == domain.StateAwaitingSensor {
			r.tracker.NotifySensorReady()
			r.publishLocked(r.tracker.CurrentSnapshot())
		}

		pos, err := r.provider.CurrentPosition(ctx)
		if err != nil {
			log.Printf("current position failed run_id=%s err=%v", r.runID, err)
			return
		}

		snap := r.tracker.Advance(pos)
		r.publishLocked(snap)
	}
}

func (r *MissionRunner) publishLocked(snap domain.MissionSnapshot) {
	for _, sink := range r.sinks {
		sink.Publish(snap)
	}
}
