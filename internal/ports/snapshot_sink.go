package ports

import "mission-tracker-service/internal/domain"

// Port: a fan-out target for freshly derived mission snapshots.
//
// Publish must not block the tick loop; implementations drop or buffer
// as appropriate.
type SnapshotSink interface {
	Publish(snap domain.MissionSnapshot)
}
