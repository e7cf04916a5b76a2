package report

import (
	"fmt"
	"strings"
)

// Units selects how distances and temperatures are rendered.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial", case-insensitively.
func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case Metric, Imperial:
		return u, nil
	case "":
		return Metric, nil
	default:
		return "", fmt.Errorf("unknown units %q: use metric or imperial", s)
	}
}

// Distance converts meters to km or miles.
func (u Units) Distance(m float64) float64 {
	if u == Imperial {
		return m / 1609.344
	}
	return m / 1000
}

func (u Units) DistanceSymbol() string {
	if u == Imperial {
		return "mi"
	}
	return "km"
}

// Temperature converts degrees Celsius to the unit system.
func (u Units) Temperature(c float64) float64 {
	if u == Imperial {
		return c*9/5 + 32
	}
	return c
}

func (u Units) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}
