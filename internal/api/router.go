package api

import (
	"net/http"

	"mission-tracker-service/internal/api/handlers"
	"mission-tracker-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.MissionRepository,
	controller handlers.MissionController,
	stream *StreamHub,
	metrics http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	missionsHandler := &handlers.MissionsHandler{Repo: repo}
	missionHandler := &handlers.MissionHandler{Controller: controller}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/missions", missionsHandler.List)
	mux.HandleFunc("/mission/state", missionHandler.State)
	mux.HandleFunc("/mission/start", missionHandler.Start)

	if stream != nil {
		mux.Handle("/mission/stream", stream)
	}
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return loggingMiddleware(mux)
}
