package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/world"
)

const maxWorldSide = 512

type Config struct {
	Port        string     `env:"PORT" envDefault:"8080"`
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level `env:"-"`

	RedisURL        string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	DataDir         string        `env:"DATA_DIR" envDefault:"./data"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	EncounterTables string        `env:"ENCOUNTER_TABLES"`

	WorldWidth  int `env:"WORLD_WIDTH" envDefault:"64"`
	WorldHeight int `env:"WORLD_HEIGHT" envDefault:"48"`

	// Terrain defaults for new sessions; requests may override them.
	MountainThreshold float64 `env:"WORLD_MOUNTAIN_THRESHOLD" envDefault:"0.6"`
	ForestThreshold   float64 `env:"WORLD_FOREST_THRESHOLD" envDefault:"0.3"`
	HillDensity       float64 `env:"WORLD_HILL_DENSITY" envDefault:"50"`
	WaterLevel        float64 `env:"WORLD_WATER_LEVEL" envDefault:"50"`

	EncounterRate float64 `env:"ENCOUNTER_RATE" envDefault:"1.0"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.WorldWidth <= 0 || c.WorldWidth > maxWorldSide {
		errs = append(errs, fmt.Errorf("WORLD_WIDTH %d must be between 1 and %d", c.WorldWidth, maxWorldSide))
	}
	if c.WorldHeight <= 0 || c.WorldHeight > maxWorldSide {
		errs = append(errs, fmt.Errorf("WORLD_HEIGHT %d must be between 1 and %d", c.WorldHeight, maxWorldSide))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL %s must be positive", c.SessionTTL))
	}
	if err := c.WorldOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.EncounterSettings().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WorldOptions returns the configured terrain options.
func (c *Config) WorldOptions() world.Options {
	return world.Options{
		MountainThreshold: c.MountainThreshold,
		ForestThreshold:   c.ForestThreshold,
		HillDensity:       c.HillDensity,
		WaterLevel:        c.WaterLevel,
	}
}

// EncounterSettings returns the default settings for new sessions.
func (c *Config) EncounterSettings() encounter.Settings {
	s := encounter.DefaultSettings()
	s.EncounterRate = c.EncounterRate
	return s
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
