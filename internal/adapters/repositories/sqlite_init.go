package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createMissionsQuery := `
	CREATE TABLE IF NOT EXISTS missions (
		mission_id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		start_lat REAL NOT NULL,
		start_lon REAL NOT NULL,
		dest_lat REAL NOT NULL,
		dest_lon REAL NOT NULL,
		arrival_radius_m REAL NOT NULL
	);
	`

	if _, err := tx.Exec(createMissionsQuery); err != nil {
		return fmt.Errorf("init schema: create missions table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type coordSeed struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type MissionSeed struct {
	MissionID      string    `json:"mission_id"`
	Label          string    `json:"label"`
	Start          coordSeed `json:"start"`
	Destination    coordSeed `json:"destination"`
	ArrivalRadiusM float64   `json:"arrival_radius_m"`
}

func loadSeeds(jsonPath string) ([]MissionSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed missions: read %q: %w", jsonPath, err)
	}

	var data []MissionSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed missions: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.MissionID) == "" {
			return nil, fmt.Errorf("seed missions: item at index %d: mission_id cannot be empty", i+1)
		}
		if item.ArrivalRadiusM <= 0 {
			return nil, fmt.Errorf(
				"seed missions: mission_id=%q: arrival_radius_m must be positive, got %v",
				item.MissionID, item.ArrivalRadiusM,
			)
		}
	}

	return data, nil
}

// Populate the database with mission presets from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	rows, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed missions: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO missions (
		mission_id,
		label,
		start_lat,
		start_lon,
		dest_lat,
		dest_lon,
		arrival_radius_m
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed missions: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range rows {
		if _, err := stmt.Exec(
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
