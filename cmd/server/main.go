package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/cache"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/matrix"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/repositories"
	"github.com/zacharydestefano89/travel-route-planner/internal/api"
	"github.com/zacharydestefano89/travel-route-planner/internal/config"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/db"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/kv"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
	"github.com/zacharydestefano89/travel-route-planner/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var (
		durable ports.CostCache
		fast    ports.CostCache
	)

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := initSchema(ctx, sqlDB); err != nil {
			log.Fatal(err)
		}
		durable = cache.NewSQLCostCache(sqlDB)
	}

	if cfg.RedisURL != "" {
		client, err := kv.Open(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer closeRedis(client)

		fast = cache.NewRedisCostCache(client, cfg.CostCacheTTL)
	}

	var (
		provider ports.CostMatrixProvider
		store    ports.CostWriter
	)
	if durable != nil || fast != nil {
		cached, err := matrix.NewCachedMatrixProvider(fast, durable)
		if err != nil {
			log.Fatal(err)
		}
		provider, store = cached, cached
	} else {
		log.Println("No DATABASE_URL or REDIS_URL set; /optimize requires inline costs")
	}

	defaults := services.Options{
		Threshold:        cfg.EnumerationThreshold,
		Workers:          cfg.OptimizerWorkers,
		MaxRequiredStops: cfg.MaxRequiredStops,
	}
	router := api.NewRouter(provider, store, defaults)

	log.Printf("Server listening addr=:%s threshold=%d workers=%d", cfg.Port, cfg.EnumerationThreshold, cfg.OptimizerWorkers)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initSchema(ctx context.Context, sqlDB *sql.DB) error {
	return repositories.InitSchema(ctx, sqlDB)
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Printf("redis close failed: %v", err)
	}
}
