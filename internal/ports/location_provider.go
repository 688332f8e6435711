package ports

import (
	"context"

	"mission-tracker-service/internal/domain"
)

// ProviderStatus is the lifecycle of a location provider. StatusFailed is
// permanent for the mission's lifetime; consumers must not retry.
type ProviderStatus int

const (
	StatusNotStarted ProviderStatus = iota
	StatusInitializing
	StatusRunning
	StatusFailed
)

func (s ProviderStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInitializing:
		return "initializing"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Port: a boundary for acquiring periodic position samples.
//
// Callers poll Status before trusting CurrentPosition; the position is
// valid only while the status is StatusRunning.
type LocationProvider interface {
	// Status reports the provider lifecycle state. The returned reason is
	// non-empty only when the status is StatusFailed.
	Status(ctx context.Context) (ProviderStatus, string)

	// CurrentPosition returns the latest position sample.
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}
