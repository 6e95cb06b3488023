// Package config loads pipeline settings from the environment, with an
// optional .env file. CLI flags take precedence over everything here.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all tool-level settings.
type Config struct {
	// Tempo is the default tempo multiplier applied when the CLI flag
	// is left at its default.
	Tempo float64

	// Workers is the number of files processed concurrently.
	Workers int

	// FailFast aborts the whole run on the first per-file failure
	// instead of skipping the file and continuing.
	FailFast bool

	// Logging settings.
	LogLevel string
	LogPath  string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults and validating the result.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := &Config{
		Tempo:    getEnvFloat("WAVTEMPO_TEMPO", 1.0),
		Workers:  getEnvInt("WAVTEMPO_WORKERS", defaultWorkers()),
		FailFast: getEnvBool("WAVTEMPO_FAIL_FAST", false),
		LogLevel: getEnvString("WAVTEMPO_LOG_LEVEL", "info"),
		LogPath:  os.Getenv("WAVTEMPO_LOG_PATH"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if math.IsNaN(c.Tempo) || math.IsInf(c.Tempo, 0) || c.Tempo <= 0 {
		return fmt.Errorf("WAVTEMPO_TEMPO must be a positive finite number: %v", c.Tempo)
	}
	if c.Workers < 1 {
		return errors.New("WAVTEMPO_WORKERS must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("WAVTEMPO_LOG_LEVEL must be one of: debug, info, warn, error")
	}
	return nil
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
