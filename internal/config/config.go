package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/gpx-trip-weather/internal/report"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// Providers lists the weather providers to query, in order.
	Providers []string

	HTTPTimeout       time.Duration
	LookupTimeout     time.Duration
	LookupConcurrency int

	// Forecast cache retention.
	CacheMaxAge     time.Duration
	CacheMaxEntries int

	// Redis is used for the forecast cache when RedisAddr is set.
	RedisAddr     string
	RedisPassword string

	// RefreshInterval controls how often saved plans are re-forecast.
	RefreshInterval time.Duration

	Units    report.Units
	Location *time.Location

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	for _, p := range strings.Split(getenvDefault("WEATHER_PROVIDERS", "openmeteo"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Providers = append(cfg.Providers, p)
		}
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.LookupTimeout, err = getenvDuration("LOOKUP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.LookupConcurrency = getenvInt("LOOKUP_CONCURRENCY", 4)

	if cfg.CacheMaxAge, err = getenvDuration("CACHE_MAX_AGE", "6h"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 1024)

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "3h"); err != nil {
		return nil, err
	}

	if cfg.Units, err = report.ParseUnits(getenvDefault("UNITS", "metric")); err != nil {
		return nil, fmt.Errorf("invalid UNITS: %w", err)
	}

	loc, err := time.LoadLocation(getenvDefault("TZ", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}
	cfg.Location = loc

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
