package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"mission-tracker-service/internal/adapters/repositories"
	"mission-tracker-service/internal/platform/db"
)

// dbtool initializes and seeds the shared Postgres mission catalog.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = "data/seeds/missions.json"
	}

	ctx := context.Background()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchemaContext(ctx, pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding mission presets...")
	if err := repositories.SeedFromJSONContext(ctx, pool, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	repo := repositories.NewSQLMissionRepository(pool)
	missions, err := repo.ListMissions(ctx)
	if err != nil {
		log.Fatalf("seed verification failed: %v", err)
	}
	log.Printf("Seeding complete: %d mission presets available.", len(missions))
}
