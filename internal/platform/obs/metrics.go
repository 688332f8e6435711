package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mission-tracker-service/internal/domain"
)

// MissionCollector bundles the Prometheus metrics derived from published
// mission snapshots. It implements the SnapshotSink port, so wiring it
// into the runner is the only integration needed.
type MissionCollector struct {
	gatherer prometheus.Gatherer

	Ticks       prometheus.Counter
	Transitions *prometheus.CounterVec
	Distance    prometheus.Gauge
	Progress    prometheus.Gauge

	mu        sync.Mutex
	lastState domain.MissionState
	hasLast   bool
}

// NewMissionCollector registers mission metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewMissionCollector(reg prometheus.Registerer) (*MissionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mission_snapshots_total",
		Help: "Total number of mission snapshots published by the tick loop.",
	})
	if err := register(reg, ticks); err != nil {
		return nil, err
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_transitions_total",
		Help: "Mission state transitions, labeled by the state entered.",
	}, []string{"state"})
	if err := register(reg, transitions); err != nil {
		return nil, err
	}

	distance := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mission_distance_to_target_meters",
		Help: "Great-circle distance to the active waypoint.",
	})
	if err := register(reg, distance); err != nil {
		return nil, err
	}

	progress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mission_progress_fraction",
		Help: "Delivery leg progress in [0,1].",
	})
	if err := register(reg, progress); err != nil {
		return nil, err
	}

	return &MissionCollector{
		gatherer:    gatherer,
		Ticks:       ticks,
		Transitions: transitions,
		Distance:    distance,
		Progress:    progress,
	}, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return nil
	}
	return err
}

// Publish records one snapshot. Implements ports.SnapshotSink.
func (c *MissionCollector) Publish(snap domain.MissionSnapshot) {
	c.Ticks.Inc()
	c.Distance.Set(snap.DistanceToActiveTarget)
	c.Progress.Set(snap.ProgressFraction)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasLast || snap.State != c.lastState {
		c.Transitions.WithLabelValues(snap.State.String()).Inc()
		c.lastState = snap.State
		c.hasLast = true
	}
}

// Handler exposes the collector's registry for the /metrics endpoint.
func (c *MissionCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
