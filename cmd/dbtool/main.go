package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/repositories"
	"github.com/zacharydestefano89/travel-route-planner/internal/config"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	sqlDB, err := db.Open(ctx, databaseURL, 2)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/costs.json")
	if err := initAndSeed(ctx, sqlDB, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("No seed file at %q; skipping seeding.", seedPath)
		return nil
	}

	log.Println("Seeding cost pairs...")
	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
