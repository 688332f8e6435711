package handlers

import (
	"net/http"
)

// Health reports process liveness. It says nothing about the mission run
// or the location provider; use /mission/state for that.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mission-tracker",
	})
}
