// Package geo measures distances between route waypoints.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/i474232898/gpx-trip-weather/internal/route"
)

// ErrInvalidCoordinate is returned for positions outside the valid
// latitude/longitude range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Validate checks that the waypoint has a usable position.
func Validate(w route.Waypoint) error {
	if math.IsNaN(w.Lat) || w.Lat < -90 || w.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, w.Lat)
	}
	if math.IsNaN(w.Lon) || w.Lon < -180 || w.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, w.Lon)
	}
	return nil
}

// Distance returns the 3-D distance in meters between a and b: the haversine
// distance combined with the elevation difference. When either point lacks an
// elevation only the horizontal distance is used.
func Distance(a, b route.Waypoint) (float64, error) {
	if err := Validate(a); err != nil {
		return 0, err
	}
	if err := Validate(b); err != nil {
		return 0, err
	}
	h := gpx.HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
	if a.Elevation == nil || b.Elevation == nil {
		return h, nil
	}
	return math.Hypot(h, *b.Elevation-*a.Elevation), nil
}

// PathLength sums Distance over every consecutive pair of points.
func PathLength(points []route.Waypoint) (float64, error) {
	if len(points) == 1 {
		return 0, Validate(points[0])
	}

	var total float64
	for i := 1; i < len(points); i++ {
		d, err := Distance(points[i-1], points[i])
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}
