package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Playtime  PlaytimeConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Logging   LogConfig
}

// AuthConfig holds the static operator set for elevated-permission checks.
type AuthConfig struct {
	Operators []string `envconfig:"OPERATORS" toml:"operators"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
}

// StorageConfig holds on-disk layout configuration.
type StorageConfig struct {
	// DataDir holds the schema file and the per-identity document directory.
	DataDir string `envconfig:"DATA_DIR" default:"./data" toml:"data_dir"`
	// SeedDir optionally holds YAML field-definition drop-ins.
	SeedDir string `envconfig:"SEED_DIR" default:"" toml:"seed_dir"`
}

// PlaytimeConfig holds the playing-time tick configuration.
type PlaytimeConfig struct {
	TickInterval time.Duration `envconfig:"PLAYTIME_TICK" default:"1s" toml:"tick_interval"`
}

// RateLimitConfig holds HTTP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// FromFile overlays a TOML file onto the environment-derived configuration.
func FromFile(path string) (*Config, error) {
	cfg := LoadOrDefault()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			DataDir: "./data",
		},
		Playtime: PlaytimeConfig{
			TickInterval: time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
