package domain

// MissionConfig describes a single delivery mission: pickup point,
// drop-off point, and the radius at which a waypoint counts as reached.
// Set once before the mission starts; immutable thereafter.
type MissionConfig struct {
	Start               Coordinate
	Destination         Coordinate
	ArrivalRadiusMeters float64
}

// Waypoints returns the mission's waypoints in leg order.
func (c MissionConfig) Waypoints() []Waypoint {
	return []Waypoint{
		{Role: WaypointStart, Label: "pickup", Coord: c.Start},
		{Role: WaypointDestination, Label: "drop-off", Coord: c.Destination},
	}
}

// MissionState is the strictly ordered mission lifecycle. StateSensorFailed
// sits outside the ordering: it is a terminal sink reachable only from
// StateAwaitingSensor.
type MissionState int

const (
	StateAwaitingSensor MissionState = iota
	StateIdle
	StateEnRouteToStart
	StateInDelivery
	StateCompleted
	StateSensorFailed
)

func (s MissionState) String() string {
	switch s {
	case StateAwaitingSensor:
		return "awaiting_sensor"
	case StateIdle:
		return "idle"
	case StateEnRouteToStart:
		return "en_route_to_start"
	case StateInDelivery:
		return "in_delivery"
	case StateCompleted:
		return "completed"
	case StateSensorFailed:
		return "sensor_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the mission can make no further progress.
func (s MissionState) Terminal() bool {
	return s == StateCompleted || s == StateSensorFailed
}

// MissionSnapshot is the derived, read-only view of mission progress
// handed to the presentation layer. Recomputed every tick; transient.
type MissionSnapshot struct {
	State                  MissionState
	DistanceToActiveTarget float64
	ProgressFraction       float64
	Message                string
}

// A mission preset as stored in the mission catalog.
type Mission struct {
	ID     string
	Label  string
	Config MissionConfig
}
