package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mission-tracker-service/internal/domain"
)

// ErrMissionNotFound is returned when no preset matches the requested id.
var ErrMissionNotFound = errors.New("mission not found")

// SQLite-backed implementation of the MissionRepository port.
type SqliteMissionRepository struct{ DB *sql.DB }

func NewSqliteMissionRepository(db *sql.DB) *SqliteMissionRepository {
	return &SqliteMissionRepository{DB: db}
}

// Return all mission presets stored in the database.
func (s *SqliteMissionRepository) ListMissions(ctx context.Context) ([]*domain.Mission, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite mission repository: DB is nil")
	}

	query := `
	SELECT
		mission_id,
		label,
		start_lat,
		start_lon,
		dest_lat,
		dest_lon,
		arrival_radius_m
	FROM missions
	ORDER BY mission_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list missions: query missions table: %w", err)
	}
	defer rows.Close()

	missions := make([]*domain.Mission, 0, 8)
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("list missions: %w", err)
		}
		missions = append(missions, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list missions: row iteration: %w", err)
	}

	return missions, nil
}

// Return a single mission preset by id.
func (s *SqliteMissionRepository) GetMission(ctx context.Context, id string) (*domain.Mission, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite mission repository: DB is nil")
	}

	query := `
	SELECT
		mission_id,
		label,
		start_lat,
		start_lon,
		dest_lat,
		dest_lon,
		arrival_radius_m
	FROM missions
	WHERE mission_id = ?;
	`
	row := s.DB.QueryRowContext(ctx, query, id)

	m, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get mission %q: %w", id, ErrMissionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mission %q: %w", id, err)
	}

	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*domain.Mission, error) {
	var m domain.Mission
	err := row.Scan(
		&m.ID, &m.Label,
		&m.Config.Start.Lat, &m.Config.Start.Lon,
		&m.Config.Destination.Lat, &m.Config.Destination.Lon,
		&m.Config.ArrivalRadiusMeters,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
