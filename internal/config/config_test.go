package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/report"
)

var envKeys = []string{
	"OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY", "GEOCODER_API_KEY", "WEATHER_PROVIDERS",
	"HTTP_TIMEOUT", "LOOKUP_TIMEOUT", "LOOKUP_CONCURRENCY", "CACHE_MAX_AGE", "CACHE_MAX_ENTRIES",
	"REDIS_ADDR", "REDIS_PASSWORD", "REFRESH_INTERVAL", "UNITS", "TZ", "PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Providers, []string{"openmeteo"}) {
		t.Errorf("unexpected providers %v", cfg.Providers)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.LookupTimeout != 10*time.Second {
		t.Errorf("unexpected timeouts %v %v", cfg.HTTPTimeout, cfg.LookupTimeout)
	}
	if cfg.LookupConcurrency != 4 || cfg.CacheMaxEntries != 1024 || cfg.CacheMaxAge != 6*time.Hour {
		t.Errorf("unexpected cache/concurrency settings %+v", cfg)
	}
	if cfg.RefreshInterval != 3*time.Hour {
		t.Errorf("unexpected refresh interval %v", cfg.RefreshInterval)
	}
	if cfg.Units != report.Metric || cfg.Location != time.UTC || cfg.Port != "8080" {
		t.Errorf("unexpected units/location/port %q %v %q", cfg.Units, cfg.Location, cfg.Port)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected redis disabled by default")
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_PROVIDERS", "openmeteo, weatherapi,,openweather")
	t.Setenv("WEATHERAPI_API_KEY", "k1")
	t.Setenv("LOOKUP_TIMEOUT", "3s")
	t.Setenv("LOOKUP_CONCURRENCY", "8")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("UNITS", "imperial")
	t.Setenv("TZ", "America/Edmonton")
	t.Setenv("PORT", "9090")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Providers, []string{"openmeteo", "weatherapi", "openweather"}) {
		t.Errorf("unexpected providers %v", cfg.Providers)
	}
	if cfg.WeatherAPIKey != "k1" || cfg.LookupTimeout != 3*time.Second || cfg.LookupConcurrency != 8 {
		t.Errorf("unexpected overrides %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.Units != report.Imperial || cfg.Port != "9090" {
		t.Errorf("unexpected overrides %+v", cfg)
	}
	if cfg.Location.String() != "America/Edmonton" {
		t.Errorf("unexpected location %v", cfg.Location)
	}
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LOOKUP_TIMEOUT":   "soon",
		"REFRESH_INTERVAL": "3 hours",
		"UNITS":            "kelvin",
		"TZ":               "Mars/Olympus_Mons",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestBadIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOOKUP_CONCURRENCY", "many")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LookupConcurrency != 4 {
		t.Errorf("expected default concurrency, got %d", cfg.LookupConcurrency)
	}
}
