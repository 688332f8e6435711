package domain

// Immutable geographic position in degrees (latitude, longitude).
type Coordinate struct {
	Lat float64
	Lon float64
}

// WaypointRole identifies which mission leg a waypoint terminates.
type WaypointRole string

const (
	WaypointStart       WaypointRole = "start"
	WaypointDestination WaypointRole = "destination"
)

// A Coordinate tagged with its role in the mission.
type Waypoint struct {
	Role  WaypointRole
	Label string
	Coord Coordinate
}
