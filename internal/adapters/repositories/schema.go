package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCostCacheQuery := `
	CREATE TABLE IF NOT EXISTS cost_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL CHECK (distance_meters >= 0),
        duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (origin, destination),
        CHECK (origin <> destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_cost_cache_destination_origin
    ON cost_cache(destination, origin);
	`

	statements := []string{
		createCostCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CostSeed struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DurationSeconds int    `json:"duration_seconds"`
	DistanceMeters  int    `json:"distance_meters"`
}

// ParseSeeds reads and validates cost seeds from a JSON file.
func ParseSeeds(jsonPath string) ([]CostSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed costs: read %q: %w", jsonPath, err)
	}

	var data []CostSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed costs: parse json: %w", err)
	}

	rows := make([]CostSeed, 0, len(data))
	for i, item := range data {
		from := strings.TrimSpace(item.From)
		to := strings.TrimSpace(item.To)
		if from == "" || to == "" {
			return nil, fmt.Errorf("seed costs: item at index %d: from and to cannot be empty", i+1)
		}
		if from == to {
			return nil, fmt.Errorf("seed costs: item at index %d: self-pair %q", i+1, from)
		}
		if item.DurationSeconds < 0 || item.DistanceMeters < 0 {
			return nil, fmt.Errorf("seed costs: item at index %d: negative cost", i+1)
		}
		rows = append(rows, CostSeed{From: from, To: to, DurationSeconds: item.DurationSeconds, DistanceMeters: item.DistanceMeters})
	}

	return rows, nil
}

// Populate the cost_cache table from a JSON file of directed legs.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := ParseSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed costs: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO cost_cache (origin, destination, distance_meters, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		updated_at = now();
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed costs: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		if _, err := stmt.ExecContext(ctx, c.From, c.To, c.DistanceMeters, c.DurationSeconds); err != nil {
			return fmt.Errorf("seed costs: insert %q -> %q: %w", c.From, c.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed costs: commit tx: %w", err)
	}

	return nil
}
