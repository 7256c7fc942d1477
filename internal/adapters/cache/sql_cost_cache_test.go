package cache

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/repositories"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/db"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestSQLCostCacheRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, repositories.InitSchema(ctx, conn))
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `DELETE FROM cost_cache WHERE origin = 'test-origin'`)
	})

	c := NewSQLCostCache(conn)
	require.NoError(t, c.PutMany(ctx, "test-origin", map[string]domain.Cost{
		"test-a": {DurationSeconds: 10, DistanceMeters: 100},
	}))
	// Upsert replaces the previous value.
	require.NoError(t, c.PutMany(ctx, "test-origin", map[string]domain.Cost{
		"test-a": {DurationSeconds: 11, DistanceMeters: 105},
		"test-b": {DurationSeconds: 3, DistanceMeters: 30},
	}))

	got, err := c.GetMany(ctx, "test-origin", []string{"test-a", "test-b", "test-c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Cost{
		"test-a": {DurationSeconds: 11, DistanceMeters: 105},
		"test-b": {DurationSeconds: 3, DistanceMeters: 30},
	}, got)
}

func TestSQLCostCacheNilDB(t *testing.T) {
	c := NewSQLCostCache(nil)
	_, err := c.GetMany(context.Background(), "O", []string{"D"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(context.Background(), "O", map[string]domain.Cost{"D": {}}))
}
