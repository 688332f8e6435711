package handlers

import (
	"log"
	"net/http"

	"mission-tracker-service/internal/api/dto"
	"mission-tracker-service/internal/ports"
)

// MissionsHandler exposes read-only mission preset retrieval endpoints.
type MissionsHandler struct {
	Repo ports.MissionRepository
}

func (h *MissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	missions, err := h.Repo.ListMissions(r.Context())
	if err != nil {
		log.Printf("list missions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListMissionsResponse{
		Missions: make([]dto.MissionResponse, 0, len(missions)),
	}
	for _, m := range missions {
		waypoints := make([]dto.WaypointResponse, 0, 2)
		for _, wp := range m.Config.Waypoints() {
			waypoints = append(waypoints, dto.WaypointResponse{
				Role:  string(wp.Role),
				Label: wp.Label,
				Coord: dto.CoordinateResponse{Lat: wp.Coord.Lat, Lon: wp.Coord.Lon},
			})
		}

		res.Missions = append(res.Missions, dto.MissionResponse{
			MissionID:      m.ID,
			Label:          m.Label,
			Start:          dto.CoordinateResponse{Lat: m.Config.Start.Lat, Lon: m.Config.Start.Lon},
			Destination:    dto.CoordinateResponse{Lat: m.Config.Destination.Lat, Lon: m.Config.Destination.Lon},
			ArrivalRadiusM: m.Config.ArrivalRadiusMeters,
			Waypoints:      waypoints,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
