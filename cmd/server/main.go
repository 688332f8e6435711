package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"mission-tracker-service/internal/adapters/location"
	"mission-tracker-service/internal/adapters/repositories"
	"mission-tracker-service/internal/api"
	"mission-tracker-service/internal/config"
	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/platform/obs"
	"mission-tracker-service/internal/ports"
	"mission-tracker-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, location providers, sinks) behind
// ports, starts the mission tick loop, and serves the presentation API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfgPath := getEnv("CONFIG_PATH", "config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed mission presets on startup for local runs.
	if err := initAndSeed(db, cfg.Database.SeedPath); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteMissionRepository(db)

	mission, err := selectMission(repo, cfg.Mission.ID)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("tracking mission_id=%s label=%q radius_m=%v",
		mission.ID, mission.Label, mission.Config.ArrivalRadiusMeters)

	tracker := services.NewMissionTracker()
	if err := tracker.Initialize(mission.Config); err != nil {
		log.Fatal(err)
	}

	provider, err := buildProvider(cfg, mission.Config)
	if err != nil {
		log.Fatal(err)
	}

	collector, err := obs.NewMissionCollector(nil)
	if err != nil {
		log.Fatal(err)
	}

	tick, err := cfg.TickInterval()
	if err != nil {
		log.Fatal(err)
	}

	// The hub needs the run id, the runner needs the hub; create the
	// runner first without sinks, then attach them.
	runner := services.NewMissionRunner(tracker, provider, tick)
	hub := api.NewStreamHub(runner.RunID())
	runner.AttachSinks(hub, collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("runner stopped: %v", err)
		}
	}()

	router := api.NewRouter(repo, runner, hub, collector.Handler())

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server listening addr=%s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func selectMission(repo ports.MissionRepository, id string) (*domain.Mission, error) {
	ctx := context.Background()

	if id != "" {
		m, err := repo.GetMission(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("select mission: %w", err)
		}
		return m, nil
	}

	missions, err := repo.ListMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("select mission: %w", err)
	}
	if len(missions) == 0 {
		return nil, errors.New("select mission: no mission presets seeded")
	}
	return missions[0], nil
}

// buildProvider selects the location provider adapter from config.
func buildProvider(cfg config.Config, mission domain.MissionConfig) (ports.LocationProvider, error) {
	switch cfg.Provider.Kind {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Provider.Redis.Addr})
		return location.NewRedisProvider(rdb, cfg.Provider.Redis.Key, cfg.Provider.Redis.Member)

	case "simulated":
		warmup, err := cfg.SimWarmup()
		if err != nil {
			return nil, err
		}

		track, err := simulatedTrack(cfg, mission)
		if err != nil {
			return nil, err
		}

		return location.NewSimulatedProvider(track, cfg.Provider.Simulated.SpeedMPS, warmup)

	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
}

// simulatedTrack uses the configured track when present; otherwise it
// synthesizes a short run-in to the mission start followed by the
// delivery leg, so the demo completes on its own.
func simulatedTrack(cfg config.Config, mission domain.MissionConfig) ([]domain.Coordinate, error) {
	if len(cfg.Provider.Simulated.Track) > 0 {
		track := make([]domain.Coordinate, 0, len(cfg.Provider.Simulated.Track))
		for _, raw := range cfg.Provider.Simulated.Track {
			c, err := location.ParseCoord(raw)
			if err != nil {
				return nil, fmt.Errorf("simulated track: %w", err)
			}
			track = append(track, c)
		}
		return track, nil
	}

	runIn := domain.Coordinate{
		Lat: mission.Start.Lat + 500.0/111194.9265, // ~500 m north of the pickup
		Lon: mission.Start.Lon,
	}
	return []domain.Coordinate{runIn, mission.Start, mission.Destination}, nil
}
