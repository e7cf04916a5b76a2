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

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo's
// daily forecast. It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Lookup(ctx context.Context, lat, lon float64, at time.Time) (weather.ProviderReading, error) {
	date := at.Format("2006-01-02")

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
		values.Set("timezone", "auto")
		values.Set("start_date", date)
		values.Set("end_date", date)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
			WeatherCode []int     `json:"weather_code"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, err
	}

	d := payload.Daily
	for i, day := range d.Time {
		if day != date || i >= len(d.TempMax) || i >= len(d.TempMin) {
			continue
		}
		code := 0
		if i < len(d.WeatherCode) {
			code = d.WeatherCode[i]
		}
		return weather.ProviderReading{
			ProviderName:    p.name,
			FetchedAt:       time.Now().UTC(),
			TemperatureMaxC: d.TempMax[i],
			TemperatureMinC: d.TempMin[i],
			Summary:         describeWMOCode(code),
			Condition:       mapOpenMeteoCondition(code),
		}, nil
	}

	return weather.ProviderReading{}, fmt.Errorf("openmeteo returned no forecast for %s", date)
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}

// describeWMOCode converts a WMO weather code to a short description.
func describeWMOCode(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1, 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75:
		return "Snow"
	case 77:
		return "Snow grains"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}
