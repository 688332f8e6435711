package handlers

import (
	"errors"
	"log"
	"net/http"

	"mission-tracker-service/internal/api/dto"
	"mission-tracker-service/internal/domain"
)

// MissionController is the slice of the mission runner the handlers
// need: issue the start command and read snapshots. Handlers never
// mutate mission state directly.
type MissionController interface {
	RunID() string
	Start() error
	Snapshot() domain.MissionSnapshot
}

// MissionHandler exposes the live mission surface: the current snapshot
// and the user start command.
type MissionHandler struct {
	Controller MissionController
}

func (h *MissionHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, snapshotResponse(h.Controller))
}

// Start issues the StartMission command. A rejected transition (mission
// already started, sensor not ready, sensor failed) maps to 409 Conflict
// and leaves the mission untouched.
func (h *MissionHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.Controller.Start(); err != nil {
		var invErr *domain.InvalidTransitionError
		if errors.As(err, &invErr) {
			log.Printf("start rejected: %v", invErr)
			writeError(w, r, http.StatusConflict, invErr.Error())
			return
		}

		log.Printf("start failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusAccepted, snapshotResponse(h.Controller))
}

func snapshotResponse(c MissionController) dto.SnapshotResponse {
	snap := c.Snapshot()
	return dto.SnapshotResponse{
		RunID:            c.RunID(),
		State:            snap.State.String(),
		DistanceMeters:   snap.DistanceToActiveTarget,
		ProgressFraction: snap.ProgressFraction,
		Message:          snap.Message,
	}
}
