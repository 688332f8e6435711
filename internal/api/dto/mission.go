package dto

// SnapshotResponse is the wire form of a mission snapshot.
type SnapshotResponse struct {
	RunID            string  `json:"run_id"`
	State            string  `json:"state"`
	DistanceMeters   float64 `json:"distance_to_target_m"`
	ProgressFraction float64 `json:"progress_fraction"`
	Message          string  `json:"message"`
}

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type WaypointResponse struct {
	Role  string             `json:"role"`
	Label string             `json:"label"`
	Coord CoordinateResponse `json:"coord"`
}

type MissionResponse struct {
	MissionID      string             `json:"mission_id"`
	Label          string             `json:"label"`
	Start          CoordinateResponse `json:"start"`
	Destination    CoordinateResponse `json:"destination"`
	ArrivalRadiusM float64            `json:"arrival_radius_m"`
	Waypoints      []WaypointResponse `json:"waypoints"`
}

type ListMissionsResponse struct {
	Missions []MissionResponse `json:"missions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
