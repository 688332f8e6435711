package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/platform/obs"
)

// SQLMissionRepository is the Postgres-flavored MissionRepository used by
// cmd/dbtool and deployments backed by a shared database.
type SQLMissionRepository struct{ DB *sql.DB }

func NewSQLMissionRepository(db *sql.DB) *SQLMissionRepository {
	return &SQLMissionRepository{DB: db}
}

func (s *SQLMissionRepository) ListMissions(ctx context.Context) (_ []*domain.Mission, err error) {
	defer obs.Time(ctx, "missions.sql.ListMissions")(&err)

	if s.DB == nil {
		return nil, errors.New("sql mission repository: DB is nil")
	}

	query := `
	SELECT mission_id, label, start_lat, start_lon, dest_lat, dest_lon, arrival_radius_m
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

func (s *SQLMissionRepository) GetMission(ctx context.Context, id string) (_ *domain.Mission, err error) {
	defer obs.Time(ctx, "missions.sql.GetMission")(&err)

	if s.DB == nil {
		return nil, errors.New("sql mission repository: DB is nil")
	}

	query := `
	SELECT mission_id, label, start_lat, start_lon, dest_lat, dest_lon, arrival_radius_m
	FROM missions
	WHERE mission_id = $1;
	`
	m, err := scanMission(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get mission %q: %w", id, ErrMissionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mission %q: %w", id, err)
	}

	return m, nil
}

// InitSchemaContext initializes the missions schema on Postgres.
func InitSchemaContext(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS missions (
		mission_id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		start_lat DOUBLE PRECISION NOT NULL,
		start_lon DOUBLE PRECISION NOT NULL,
		dest_lat DOUBLE PRECISION NOT NULL,
		dest_lon DOUBLE PRECISION NOT NULL,
		arrival_radius_m DOUBLE PRECISION NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("init schema: create missions table: %w", err)
	}

	return nil
}

// SeedFromJSONContext populates Postgres with mission presets from a JSON
// file, upserting on mission_id.
func SeedFromJSONContext(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed missions: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO missions (mission_id, label, start_lat, start_lon, dest_lat, dest_lon, arrival_radius_m)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (mission_id) DO UPDATE
	SET label = EXCLUDED.label,
		start_lat = EXCLUDED.start_lat,
		start_lon = EXCLUDED.start_lon,
		dest_lat = EXCLUDED.dest_lat,
		dest_lon = EXCLUDED.dest_lon,
		arrival_radius_m = EXCLUDED.arrival_radius_m;
	`)
	if err != nil {
		return fmt.Errorf("seed missions: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range rows {
		if _, err := stmt.ExecContext(ctx,
			m.MissionID, m.Label,
			m.Start.Lat, m.Start.Lon,
			m.Destination.Lat, m.Destination.Lon,
			m.ArrivalRadiusM,
		); err != nil {
			return fmt.Errorf("seed missions: insert mission_id=%q: %w", m.MissionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed missions: commit tx: %w", err)
	}

	return nil
}
