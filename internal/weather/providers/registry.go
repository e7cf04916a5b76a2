package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

// Keys holds provider credentials.
type Keys struct {
	OpenWeather string
	WeatherAPI  string
}

// Build constructs the named providers in order. Unknown names are an error.
func Build(names []string, client *http.Client, keys Keys) ([]weather.Provider, error) {
	var provs []weather.Provider
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case "openmeteo":
			provs = append(provs, NewOpenMeteoProvider(client))
		case "weatherapi":
			provs = append(provs, NewWeatherAPIProvider(client, keys.WeatherAPI))
		case "openweather", "openweathermap":
			provs = append(provs, NewOpenWeatherProvider(client, keys.OpenWeather))
		default:
			return nil, fmt.Errorf("unknown weather provider %q", name)
		}
	}
	return provs, nil
}
