package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"visual_traceroute/tracemap/internal/mapview"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8082" || cfg.LogLevel != "info" || cfg.TraceEndpoint != "http://localhost:8000" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TraceTimeout != 90*time.Second {
		t.Fatalf("expected 90s timeout, got %s", cfg.TraceTimeout)
	}
	if cfg.DatabaseURL != "" || cfg.MapConfig != "" {
		t.Fatalf("expected optional settings to be empty, got %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"HTTP_ADDR":           "127.0.0.1:9000",
		"LOG_LEVEL":           "debug",
		"TRACE_ENDPOINT":      "https://trace.example",
		"TRACE_TIMEOUT":       "15s",
		"TRACE_RATE_INTERVAL": "2s",
		"DATABASE_URL":        "postgres://localhost/tracemap",
		"MAP_CONFIG":          "/etc/tracemap/map.yaml",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.LogLevel != "debug" || cfg.TraceEndpoint != "https://trace.example" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TraceTimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.TraceTimeout)
	}
	if cfg.TraceRateInterval != 2*time.Second {
		t.Fatalf("expected 2s rate interval, got %s", cfg.TraceRateInterval)
	}
	if cfg.DatabaseURL != "postgres://localhost/tracemap" || cfg.MapConfig != "/etc/tracemap/map.yaml" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestFromEnv_RejectsBadTimeout(t *testing.T) {
	for _, raw := range []string{"soon", "0s", "-1m"} {
		if _, err := FromEnv(envFrom(map[string]string{"TRACE_TIMEOUT": raw})); err == nil {
			t.Fatalf("expected error for TRACE_TIMEOUT=%q", raw)
		}
	}
	if _, err := FromEnv(envFrom(map[string]string{"TRACE_RATE_INTERVAL": "-1s"})); err == nil {
		t.Fatalf("expected error for negative TRACE_RATE_INTERVAL")
	}
}

func TestLoadMapSettings_EmptyPathIsDefault(t *testing.T) {
	s, err := LoadMapSettings("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != mapview.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", s)
	}
}

func TestLoadMapSettings_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	yml := `center: [51.5, -0.12]
zoom: 4
flag_url_template: "https://flags.example/{code}.svg"
icons:
  icon_url: /static/pin.png
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadMapSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Center != (mapview.LatLng{51.5, -0.12}) || s.Zoom != 4 {
		t.Fatalf("unexpected center/zoom %+v", s)
	}
	if s.FlagURL("FR") != "https://flags.example/fr.svg" {
		t.Fatalf("unexpected flag url %q", s.FlagURL("FR"))
	}
	if s.Icons.IconURL != "/static/pin.png" || s.Icons.ShadowURL != "/marker-shadow.png" {
		t.Fatalf("expected partial icon override, got %+v", s.Icons)
	}
	if s.TileURL != mapview.DefaultTileURL || s.PolylineColor != "blue" {
		t.Fatalf("expected untouched defaults, got %+v", s)
	}
}

func TestLoadMapSettings_MissingFile(t *testing.T) {
	if _, err := LoadMapSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseMapSettings_Invalid(t *testing.T) {
	cases := map[string]string{
		"latitude":  "center: [91, 0]",
		"longitude": "center: [0, 181]",
		"zoom":      "zoom: 30",
		"tile url":  `tile_url: ""`,
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMapSettings([]byte(yml))
			if !errors.Is(err, ErrInvalidMapSettings) {
				t.Fatalf("expected ErrInvalidMapSettings, got %v", err)
			}
		})
	}

	if _, err := ParseMapSettings([]byte("zoom: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}
