// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/strideworks/stride/internal/provider"
)

// Config holds all application configuration.
type Config struct {
	Port   string
	DBPath string
	// RedisURL switches the analysis cache from sqlite to Redis when set.
	RedisURL string

	// CacheFreshness is the analysis reuse window.
	CacheFreshness time.Duration
	// PersonaRefreshEvery is the cadence for pulling run-history stats
	// into the persona profile.
	PersonaRefreshEvery time.Duration

	// ContextClassifier enables the external context-aware classifier
	// fallback for low-confidence pattern results.
	ContextClassifier bool
	// ClassifierTurnWindow bounds the recent turns sent to the context
	// classifier.
	ClassifierTurnWindow int

	Provider provider.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DBPath:               getEnv("DB_PATH", "./data/stride.db"),
		RedisURL:             getEnv("REDIS_URL", ""),
		CacheFreshness:       getEnvDuration("CACHE_FRESHNESS", 15*time.Minute),
		PersonaRefreshEvery:  getEnvDuration("PERSONA_REFRESH_EVERY", 15*24*time.Hour),
		ContextClassifier:    getEnvBool("CONTEXT_CLASSIFIER", true),
		ClassifierTurnWindow: getEnvInt("CLASSIFIER_TURN_WINDOW", 6),
		Provider:             provider.LoadConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.CacheFreshness <= 0 {
		return fmt.Errorf("CACHE_FRESHNESS must be > 0")
	}
	if c.PersonaRefreshEvery <= 0 {
		return fmt.Errorf("PERSONA_REFRESH_EVERY must be > 0")
	}
	if c.ClassifierTurnWindow <= 0 {
		return fmt.Errorf("CLASSIFIER_TURN_WINDOW must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
