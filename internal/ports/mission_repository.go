package ports

import (
	"context"

	"mission-tracker-service/internal/domain"
)

// Port: a boundary for retrieving mission presets from a data source.
type MissionRepository interface {
	// Retrieve all mission presets available for tracking.
	ListMissions(ctx context.Context) ([]*domain.Mission, error)

	// Retrieve a single mission preset by id.
	GetMission(ctx context.Context, id string) (*domain.Mission, error)
}
