// Package places names the sampled position of each trip day by reverse
// geocoding it.
package places

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

// ErrNoAddress is returned when the geocoder knows nothing about a position.
var ErrNoAddress = errors.New("no address for position")

type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

// Namer resolves coordinates to a short place name. Results are memoized per
// rounded position.
type Namer struct {
	reverse reverseFunc

	mu    sync.Mutex
	cache map[string]string
}

// NewNamer configures the geocoder with apiKey. It returns nil when apiKey is
// empty; a nil *Namer names nothing.
func NewNamer(apiKey string) *Namer {
	if apiKey == "" {
		return nil
	}
	geocoder.ApiKey = apiKey
	return newNamer(geocoder.GeocodingReverse)
}

func newNamer(fn reverseFunc) *Namer {
	return &Namer{reverse: fn, cache: make(map[string]string)}
}

// Name returns the place name for a position.
func (n *Namer) Name(ctx context.Context, lat, lon float64) (string, error) {
	if n == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%.3f:%.3f", lat, lon)
	n.mu.Lock()
	name, ok := n.cache[key]
	n.mu.Unlock()
	if ok {
		return name, nil
	}

	addrs, err := n.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", key, err)
	}
	if len(addrs) == 0 {
		return "", ErrNoAddress
	}
	name = label(addrs[0])

	n.mu.Lock()
	n.cache[key] = name
	n.mu.Unlock()
	return name, nil
}

// label prefers "City, State" over the full formatted address.
func label(a geocoder.Address) string {
	switch {
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "":
		return a.City
	case a.County != "":
		return a.County
	default:
		return a.FormattedAddress
	}
}
