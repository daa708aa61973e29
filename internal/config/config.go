// Package config loads runtime settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the binary.
type Config struct {
	DBPath            string
	LogLevel          slog.Level
	Workers           int
	ForestBlocksSight bool
}

// Defaults.
const (
	defaultDBPath  = "data/hexsim.db"
	defaultWorkers = 4
)

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := &Config{
		DBPath:   getenv("HEXSIM_DB_PATH", defaultDBPath),
		LogLevel: slog.LevelInfo,
		Workers:  defaultWorkers,
	}

	if v := os.Getenv("HEXSIM_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("HEXSIM_LOG_LEVEL: %w", err)
		}
	}
	if v := os.Getenv("HEXSIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("HEXSIM_WORKERS: want a positive integer, got %q", v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("HEXSIM_FOREST_BLOCKS_SIGHT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEXSIM_FOREST_BLOCKS_SIGHT: %w", err)
		}
		cfg.ForestBlocksSight = b
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
