package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the simulator
type Config struct {
	Combat    CombatConfig
	Narration NarrationConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
}

// CombatConfig holds encounter configuration
type CombatConfig struct {
	Seed      int64 `env:"COMBAT_SEED" envDefault:"0"` // 0 draws a random seed at startup
	MaxRounds int   `env:"COMBAT_MAX_ROUNDS" envDefault:"50"`
}

// NarrationConfig holds narration configuration
type NarrationConfig struct {
	Timeout  time.Duration `env:"NARRATION_TIMEOUT" envDefault:"5s"`
	Fallback string        `env:"NARRATION_FALLBACK" envDefault:"The struggle continues."`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL         string        `env:"REDIS_URL"` // Optional: empty keeps snapshots in memory
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"1h"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"dungeon"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate
	if cfg.Combat.MaxRounds < 1 {
		return nil, fmt.Errorf("COMBAT_MAX_ROUNDS must be at least 1, got %d", cfg.Combat.MaxRounds)
	}
	if cfg.Narration.Timeout <= 0 {
		return nil, fmt.Errorf("NARRATION_TIMEOUT must be positive, got %s", cfg.Narration.Timeout)
	}
	if cfg.Redis.SnapshotTTL < 0 {
		return nil, fmt.Errorf("SNAPSHOT_TTL must not be negative, got %s", cfg.Redis.SnapshotTTL)
	}

	return cfg, nil
}
