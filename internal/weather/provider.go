package weather

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized daily forecast
// that can be aggregated into a DailySummary.
type ProviderReading struct {
	ProviderName string
	FetchedAt    time.Time

	TemperatureMaxC float64
	TemperatureMinC float64
	Summary         string
	Condition       Condition
}

// Provider abstracts a weather data source (e.g. Open-Meteo, WeatherAPI, OpenWeatherMap).
// Lookup returns the forecast for the calendar day of at, at the given position.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, lat, lon float64, at time.Time) (ProviderReading, error)
}

// Store is the contract the forecast caches must satisfy.
type Store interface {
	Get(ctx context.Context, key string) (DailySummary, error)
	Save(ctx context.Context, key string, summary DailySummary) error
}

// Metrics receives lookup observations. Implementations must be safe for
// concurrent use.
type Metrics interface {
	LookupObserve(provider string, d time.Duration, err error)
	CacheHit()
	CacheMiss()
}
