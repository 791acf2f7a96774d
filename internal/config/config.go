// Package config reads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	DataDir            string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	DefaultRadii       []int
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	radii, err := parseRadii(envOrDefault("DEFAULT_RADII", "1,2"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DataDir:         envOrDefault("DATA_DIR", "./data"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		DefaultRadii:    radii,
		ShutdownTimeout: shutdownTimeout,
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitAndTrim(origins)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", s)
	}
	return d, nil
}

// parseRadii parses a comma-separated list of window radii.
func parseRadii(s string) ([]int, error) {
	parts := splitAndTrim(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid DEFAULT_RADII %q", s)
	}
	radii := make([]int, 0, len(parts))
	for _, p := range parts {
		r, err := strconv.Atoi(p)
		if err != nil || r < 0 {
			return nil, fmt.Errorf("invalid DEFAULT_RADII entry %q", p)
		}
		radii = append(radii, r)
	}
	return radii, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
