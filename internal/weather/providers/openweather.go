package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

// OpenWeatherProvider implements the weather.Provider interface for the
// OpenWeatherMap One Call daily aggregation endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/3.0/onecall/day_summary",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Lookup(ctx context.Context, lat, lon float64, at time.Time) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("date", at.Format("2006-01-02"))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Date        string `json:"date"`
		Temperature struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temperature"`
		CloudCover struct {
			Afternoon float64 `json:"afternoon"`
		} `json:"cloud_cover"`
		Humidity struct {
			Afternoon float64 `json:"afternoon"`
		} `json:"humidity"`
		Precipitation struct {
			Total float64 `json:"total"`
		} `json:"precipitation"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, err
	}

	cond := mapOpenWeatherCondition(payload.Precipitation.Total, payload.Temperature.Max, payload.CloudCover.Afternoon, payload.Humidity.Afternoon)

	return weather.ProviderReading{
		ProviderName:    p.name,
		FetchedAt:       time.Now().UTC(),
		TemperatureMaxC: payload.Temperature.Max,
		TemperatureMinC: payload.Temperature.Min,
		Summary:         describeOpenWeather(cond, payload.Precipitation.Total),
		Condition:       cond,
	}, nil
}

// The day summary carries no condition text, so one is derived from
// precipitation, cloud cover and humidity.
func mapOpenWeatherCondition(precipMM, maxC, cloudPct, humidityPct float64) weather.Condition {
	switch {
	case precipMM >= 1 && maxC <= 1:
		return weather.ConditionSnow
	case precipMM >= 1:
		return weather.ConditionRain
	case humidityPct >= 95:
		return weather.ConditionMist
	case cloudPct >= 60:
		return weather.ConditionCloudy
	default:
		return weather.ConditionClear
	}
}

func describeOpenWeather(cond weather.Condition, precipMM float64) string {
	switch cond {
	case weather.ConditionSnow:
		return fmt.Sprintf("Snow (%.1f mm)", precipMM)
	case weather.ConditionRain:
		return fmt.Sprintf("Rain (%.1f mm)", precipMM)
	case weather.ConditionMist:
		return "Fog"
	case weather.ConditionCloudy:
		return "Cloudy"
	default:
		return "Clear"
	}
}
