package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddr         = ":8080"
	defaultDBPath       = "data/app.db"
	defaultSeedPath     = "data/seeds/missions.json"
	defaultTickInterval = time.Second
	defaultProvider     = "simulated"
	defaultSimSpeedMPS  = 8.0
	defaultSimWarmup    = 2 * time.Second
)

// Config is the full runtime configuration, loaded from an optional YAML
// file and then overridden by environment variables. All values are fixed
// for the process lifetime.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		Path     string `yaml:"path"`
		SeedPath string `yaml:"seed_path"`
	} `yaml:"database"`

	Mission struct {
		// Preset id to track; empty selects the first seeded preset.
		ID           string `yaml:"id"`
		TickInterval string `yaml:"tick_interval"`
	} `yaml:"mission"`

	Provider struct {
		// "simulated" or "redis".
		Kind string `yaml:"kind"`

		Redis struct {
			Addr   string `yaml:"addr"`
			Key    string `yaml:"key"`
			Member string `yaml:"member"`
		} `yaml:"redis"`

		Simulated struct {
			// Track points as "lat,lon" strings; empty means "derive a
			// straight run-in to the mission's own waypoints".
			Track    []string `yaml:"track"`
			SpeedMPS float64  `yaml:"speed_mps"`
			Warmup   string   `yaml:"warmup"`
		} `yaml:"simulated"`
	} `yaml:"provider"`
}

// Load reads the YAML file at path (skipped when the file does not
// exist), applies environment overrides, defaults, and validation.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Config file is optional; env and defaults take over.
		case err != nil:
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "ADDR")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.Database.SeedPath, "SEED_PATH")
	setString(&cfg.Mission.ID, "MISSION_ID")
	setString(&cfg.Mission.TickInterval, "TICK_INTERVAL")
	setString(&cfg.Provider.Kind, "PROVIDER")
	setString(&cfg.Provider.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Provider.Redis.Key, "REDIS_GEO_KEY")
	setString(&cfg.Provider.Redis.Member, "REDIS_GEO_MEMBER")

	if v := os.Getenv("SIM_SPEED_MPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Provider.Simulated.SpeedMPS = f
		}
	}
	setString(&cfg.Provider.Simulated.Warmup, "SIM_WARMUP")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDBPath
	}
	if cfg.Database.SeedPath == "" {
		cfg.Database.SeedPath = defaultSeedPath
	}
	if cfg.Mission.TickInterval == "" {
		cfg.Mission.TickInterval = defaultTickInterval.String()
	}
	if cfg.Provider.Kind == "" {
		cfg.Provider.Kind = defaultProvider
	}
	if cfg.Provider.Simulated.SpeedMPS == 0 {
		cfg.Provider.Simulated.SpeedMPS = defaultSimSpeedMPS
	}
	if cfg.Provider.Simulated.Warmup == "" {
		cfg.Provider.Simulated.Warmup = defaultSimWarmup.String()
	}
	if cfg.Provider.Redis.Key == "" {
		cfg.Provider.Redis.Key = "courier:positions"
	}
	if cfg.Provider.Redis.Member == "" {
		cfg.Provider.Redis.Member = "courier:1"
	}
}

func validate(cfg Config) error {
	switch cfg.Provider.Kind {
	case "simulated", "redis":
	default:
		return fmt.Errorf("provider kind must be simulated or redis, got %q", cfg.Provider.Kind)
	}

	if cfg.Provider.Kind == "redis" && cfg.Provider.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required for the redis provider")
	}

	if _, err := cfg.TickInterval(); err != nil {
		return err
	}
	if _, err := cfg.SimWarmup(); err != nil {
		return err
	}
	if cfg.Provider.Simulated.SpeedMPS <= 0 {
		return fmt.Errorf("simulated speed must be positive, got %v", cfg.Provider.Simulated.SpeedMPS)
	}

	return nil
}

// TickInterval parses the configured tick interval.
func (c Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Mission.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("parse tick_interval %q: %w", c.Mission.TickInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick_interval must be positive, got %s", d)
	}
	return d, nil
}

// SimWarmup parses the simulated provider's warmup window.
func (c Config) SimWarmup() (time.Duration, error) {
	d, err := time.ParseDuration(c.Provider.Simulated.Warmup)
	if err != nil {
		return 0, fmt.Errorf("parse warmup %q: %w", c.Provider.Simulated.Warmup, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("warmup must not be negative, got %s", d)
	}
	return d, nil
}
