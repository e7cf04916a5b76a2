// Package itinerary turns untimed routes into a day-by-day timeline.
//
// Time is allocated proportionally to the distance covered along the whole
// multi-route path: the first waypoint sits at the window start (midnight) and
// the last at window start + window days.
package itinerary

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/geo"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
)

var (
	// ErrNoRoutes is returned when there is nothing to schedule.
	ErrNoRoutes = errors.New("no routes to schedule")
	// ErrEmptyRoute is returned for a route without waypoints.
	ErrEmptyRoute = errors.New("route has no waypoints")
	// ErrZeroDistance is returned when a multi-point path has zero length.
	ErrZeroDistance = errors.New("total route distance is zero")
)

const day = 24 * time.Hour

// progress is the fold state threaded through every waypoint of the path.
type progress struct {
	traveled float64
	previous *route.Waypoint
}

// advance accumulates the distance from the previous waypoint to w.
func (p progress) advance(w route.Waypoint) (progress, error) {
	if p.previous == nil {
		return progress{traveled: p.traveled, previous: &w}, nil
	}
	d, err := geo.Distance(*p.previous, w)
	if err != nil {
		return p, err
	}
	return progress{traveled: p.traveled + d, previous: &w}, nil
}

// Build produces one track per route, preserving route order and metadata.
// The distance accumulator is not reset between routes, so timestamps are
// non-decreasing across the whole trip.
func Build(routes []route.Route, w trip.Window) ([]route.Track, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}
	if w.Days <= 0 || w.Days > trip.MaxDays {
		return nil, fmt.Errorf("%w: window of %d days", trip.ErrConfiguration, w.Days)
	}
	for _, r := range routes {
		if len(r.Points) == 0 {
			return nil, ErrEmptyRoute
		}
	}

	path := route.FlattenRoutes(routes)
	total, err := geo.PathLength(path)
	if err != nil {
		return nil, err
	}
	if total == 0 && len(path) > 1 {
		return nil, ErrZeroDistance
	}

	start := trip.Midnight(w.Start)

	tracks := make([]route.Track, 0, len(routes))
	var state progress

	for _, r := range routes {
		points := make([]route.Waypoint, 0, len(r.Points))
		for _, p := range r.Points {
			state, err = state.advance(p)
			if err != nil {
				return nil, err
			}

			ts := start
			if total > 0 {
				ts = at(start, w.Days, state.traveled/total)
			}
			points = append(points, p.WithTime(ts))
		}

		tracks = append(tracks, route.Track{
			Name:        r.Name,
			Description: r.Description,
			Number:      r.Number,
			Segments:    [][]route.Waypoint{points},
		})
	}

	return tracks, nil
}

// at places a fraction of a days-long window on the calendar. Whole days are
// added with AddDate so they end on local midnight across DST changes; the
// remainder is scaled to the length of that calendar day.
func at(start time.Time, days int, frac float64) time.Time {
	offset := time.Duration(math.Round(float64(days) * float64(day) * frac))
	whole := int(offset / day)
	dayStart := start.AddDate(0, 0, whole)

	rem := offset % day
	if rem == 0 {
		return dayStart
	}
	length := start.AddDate(0, 0, whole+1).Sub(dayStart)
	return dayStart.Add(time.Duration(math.Round(float64(length) * (float64(rem) / float64(day)))))
}
