// Package config reads service configuration from environment variables.
// Call godotenv.Load before Load to pick up a local .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int
	RedisURL    string
	SeedPath    string

	CostCacheTTL time.Duration

	EnumerationThreshold int
	OptimizerWorkers     int
	MaxRequiredStops     int
}

// Load reads configuration with defaults. Optional backends stay empty when unset.
func Load() (*Config, error) {
	threshold, err := getInt("ENUMERATION_THRESHOLD", 6)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("OPTIMIZER_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	maxRequired, err := getInt("MAX_REQUIRED_STOPS", 16)
	if err != nil {
		return nil, err
	}
	dbMaxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	ttlSeconds, err := getInt("COST_CACHE_TTL_SECONDS", 86400)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                 Get("PORT", "8080"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:           dbMaxConns,
		RedisURL:             strings.TrimSpace(os.Getenv("REDIS_URL")),
		SeedPath:             Get("SEED_PATH", "data/seeds/costs.json"),
		CostCacheTTL:         time.Duration(ttlSeconds) * time.Second,
		EnumerationThreshold: threshold,
		OptimizerWorkers:     workers,
		MaxRequiredStops:     maxRequired,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.EnumerationThreshold < 0 {
		return fmt.Errorf("config: ENUMERATION_THRESHOLD must be >= 0, got %d", c.EnumerationThreshold)
	}
	if c.OptimizerWorkers < 1 {
		return fmt.Errorf("config: OPTIMIZER_WORKERS must be >= 1, got %d", c.OptimizerWorkers)
	}
	if c.MaxRequiredStops < 1 {
		return fmt.Errorf("config: MAX_REQUIRED_STOPS must be >= 1, got %d", c.MaxRequiredStops)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be >= 1, got %d", c.DBMaxConns)
	}
	if c.CostCacheTTL < 0 {
		return fmt.Errorf("config: COST_CACHE_TTL_SECONDS must be >= 0, got %s", c.CostCacheTTL)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}
