package itinerary

import (
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/route"
)

// ErrEmptyBucket signals a day bucket without waypoints.
var ErrEmptyBucket = errors.New("day bucket is empty")

// DaySample is the waypoint used to query a day's weather.
type DaySample struct {
	Date  time.Time      `json:"date"`
	Point route.Waypoint `json:"point"`
}

// Sample picks the middle waypoint of a day (index len/2).
func Sample(points []route.Waypoint) (route.Waypoint, error) {
	if len(points) == 0 {
		return route.Waypoint{}, ErrEmptyBucket
	}
	return points[len(points)/2], nil
}

// SampleDays picks one waypoint for every bucket.
func SampleDays(buckets []DayBucket) ([]DaySample, error) {
	samples := make([]DaySample, 0, len(buckets))
	for _, b := range buckets {
		p, err := Sample(b.Points)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Date.Format("2006-01-02"), err)
		}
		samples = append(samples, DaySample{Date: b.Date, Point: p})
	}
	return samples, nil
}
