package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/obs"
)

// SQLCostCache is a Postgres-backed store of origin->destination leg costs.
type SQLCostCache struct {
	DB *sql.DB
}

func NewSQLCostCache(db *sql.DB) *SQLCostCache {
	return &SQLCostCache{DB: db}
}

// Fetch cached costs for one origin and multiple destinations.
func (s *SQLCostCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.Cost, err error) {
	defer obs.Time(ctx, "cost.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("cost cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get cost cache: origin must not be empty")
	}

	uniq := uniqueKeys(origin, destinations)
	if len(uniq) == 0 {
		return map[string]domain.Cost{}, nil
	}

	q := `
	SELECT destination, distance_meters, duration_seconds
    FROM cost_cache
    WHERE origin = $1
        AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get cost cache: query cost_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Cost, len(uniq))
	for rows.Next() {
		var dest string
		var meters, seconds int
		if err := rows.Scan(&dest, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get cost cache: scan rows: %w", err)
		}
		out[dest] = domain.Cost{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get cost cache: row iteration: %w", err)
	}

	obs.RecordCacheLookup("sql", len(out), len(uniq)-len(out))
	return out, nil
}

// Store many leg costs for a single origin.
func (s *SQLCostCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]domain.Cost,
) error {
	if s.DB == nil {
		return errors.New("cost cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert cost cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert cost cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cost_cache (origin, destination, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		updated_at = now();
	`)
	if err != nil {
		return fmt.Errorf("insert cost cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert cost cache: empty destination key")
		}
		if dest == origin {
			return fmt.Errorf("insert cost cache: self-pair %q", dest)
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert cost cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert cost cache commit: %w", err)
	}

	return nil
}

// uniqueKeys trims, deduplicates and drops empty and self keys, keeping order.
func uniqueKeys(origin string, destinations []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" || d == origin {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}
	return uniq
}
