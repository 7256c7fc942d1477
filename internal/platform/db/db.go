package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultMaxConns is used when Open is given a non-positive pool size.
const DefaultMaxConns = 10

// Open connects to Postgres through the pgx database/sql driver and pings it
// within a short timeout. Cost lookups are small and frequent, so idle
// connections are kept up to the pool size.
func Open(ctx context.Context, databaseURL string, maxConns int) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("db: open: database url is empty")
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}

	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(maxConns)
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db: verify postgres connection: %w", err)
	}

	return conn, nil
}
