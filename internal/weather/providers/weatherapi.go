package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/gpx-trip-weather/internal/common"
	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Lookup(ctx context.Context, lat, lon float64, at time.Time) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	date := at.Format("2006-01-02")

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
		values.Set("dt", date)
		values.Set("days", "1")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC  float64 `json:"maxtemp_c"`
					MinTempC  float64 `json:"mintemp_c"`
					Condition struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, err
	}

	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date != date {
			continue
		}
		return weather.ProviderReading{
			ProviderName:    p.name,
			FetchedAt:       time.Now().UTC(),
			TemperatureMaxC: fd.Day.MaxTempC,
			TemperatureMinC: fd.Day.MinTempC,
			Summary:         fd.Day.Condition.Text,
			Condition:       mapWeatherAPICondition(fd.Day.Condition.Text),
		}, nil
	}

	return weather.ProviderReading{}, fmt.Errorf("weatherapi returned no forecast for %s", date)
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(text, "fog", "mist"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
