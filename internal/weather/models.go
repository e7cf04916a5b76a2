package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Query identifies one daily lookup: where the traveler is expected to be and when.
type Query struct {
	Lat float64   `json:"lat"`
	Lon float64   `json:"lon"`
	At  time.Time `json:"at"`
}

// Date returns the calendar date of the query in its own location.
func (q Query) Date() string {
	return q.At.Format("2006-01-02")
}

// Key returns a canonical string key for caching this query. Positions are
// rounded to ~1 km so nearby samples on the same date share a forecast.
func (q Query) Key() string {
	return fmt.Sprintf("%.2f:%.2f:%s", q.Lat, q.Lon, q.Date())
}

// DailySummary is the normalized, aggregated forecast for one day.
type DailySummary struct {
	Date           time.Time `json:"date"`
	TemperatureMax float64   `json:"temperatureMaxC"`
	TemperatureMin float64   `json:"temperatureMinC"`
	Summary        string    `json:"summary"`
	Condition      Condition `json:"condition"`

	// Providers contributing to this summary.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// Result is the outcome of one daily lookup. Err is set when every provider
// failed for that day.
type Result struct {
	Query   Query        `json:"query"`
	Summary DailySummary `json:"summary"`
	Err     error        `json:"-"`
}
