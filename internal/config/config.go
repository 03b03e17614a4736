// Package config loads server settings from the environment and map
// widget settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"visual_traceroute/tracemap/internal/mapview"
)

const (
	DefaultHTTPAddr      = ":8082"
	DefaultLogLevel      = "info"
	DefaultTraceEndpoint = "http://localhost:8000"
	DefaultTraceTimeout  = 90 * time.Second
)

var ErrInvalidMapSettings = errors.New("invalid map settings")

type Server struct {
	HTTPAddr      string
	LogLevel      string
	TraceEndpoint string
	TraceTimeout  time.Duration
	DatabaseURL   string
	MapConfig     string

	// TraceRateInterval is the minimum spacing between upstream queries.
	// Zero disables pacing.
	TraceRateInterval time.Duration
}

// FromEnv reads server settings through getenv, usually os.Getenv.
func FromEnv(getenv func(string) string) (Server, error) {
	envOr := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := Server{
		HTTPAddr:      envOr("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:      envOr("LOG_LEVEL", DefaultLogLevel),
		TraceEndpoint: envOr("TRACE_ENDPOINT", DefaultTraceEndpoint),
		TraceTimeout:  DefaultTraceTimeout,
		DatabaseURL:   getenv("DATABASE_URL"),
		MapConfig:     getenv("MAP_CONFIG"),
	}

	if raw := getenv("TRACE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("TRACE_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Server{}, fmt.Errorf("TRACE_TIMEOUT: must be positive, got %s", raw)
		}
		cfg.TraceTimeout = d
	}

	if raw := getenv("TRACE_RATE_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("TRACE_RATE_INTERVAL: %w", err)
		}
		if d < 0 {
			return Server{}, fmt.Errorf("TRACE_RATE_INTERVAL: must not be negative, got %s", raw)
		}
		cfg.TraceRateInterval = d
	}

	return cfg, nil
}

// LoadMapSettings reads YAML map settings from path over the defaults.
// An empty path yields the defaults.
func LoadMapSettings(path string) (mapview.Settings, error) {
	if path == "" {
		return mapview.DefaultSettings(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return mapview.Settings{}, fmt.Errorf("read map config: %w", err)
	}
	return ParseMapSettings(b)
}

// ParseMapSettings decodes YAML over the default settings. Keys that are
// not present keep their default value.
func ParseMapSettings(b []byte) (mapview.Settings, error) {
	settings := mapview.DefaultSettings()
	if err := yaml.Unmarshal(b, &settings); err != nil {
		return mapview.Settings{}, fmt.Errorf("parse map config: %w", err)
	}
	if err := validate(settings); err != nil {
		return mapview.Settings{}, err
	}
	return settings, nil
}

func validate(s mapview.Settings) error {
	switch {
	case s.Center[0] < -90 || s.Center[0] > 90:
		return fmt.Errorf("%w: center latitude %v out of range", ErrInvalidMapSettings, s.Center[0])
	case s.Center[1] < -180 || s.Center[1] > 180:
		return fmt.Errorf("%w: center longitude %v out of range", ErrInvalidMapSettings, s.Center[1])
	case s.Zoom < 0 || s.Zoom > 22:
		return fmt.Errorf("%w: zoom %d out of range", ErrInvalidMapSettings, s.Zoom)
	case s.TileURL == "":
		return fmt.Errorf("%w: tile_url is required", ErrInvalidMapSettings)
	}
	return nil
}
