package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration read from the environment.
type Config struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	RoundDuration time.Duration `env:"ROUND_DURATION" envDefault:"40s"`
	GraceWindow   time.Duration `env:"GRACE_WINDOW" envDefault:"10s"`
	CORSOrigins   []string      `env:"CORS_ORIGIN" envDefault:"*" envSeparator:","`
	BaseURL       string        `env:"BASE_URL"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	for i, origin := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(origin)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.RoundDuration <= 0 {
		return Config{}, fmt.Errorf("ROUND_DURATION must be positive, got %s", cfg.RoundDuration)
	}
	if cfg.GraceWindow <= 0 {
		return Config{}, fmt.Errorf("GRACE_WINDOW must be positive, got %s", cfg.GraceWindow)
	}
	return cfg, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
