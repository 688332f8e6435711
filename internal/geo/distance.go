package geo

import (
	"math"

	"mission-tracker-service/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two coordinates in
// meters (Haversine). Always >= 0 and symmetric; ~0 for coincident points.
func Distance(a, b domain.Coordinate) float64 {
	const degToRad = math.Pi / 180

	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Floating-point rounding can push h just past [0,1] for coincident or
	// antipodal points, which would feed NaN into the square roots.
	if h < 0 {
		h = 0
	}
	if h > 1 {
		h = 1
	}

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
