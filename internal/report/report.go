// Package report turns a timed itinerary into a day-by-day weather report.
package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/geo"
	"github.com/i474232898/gpx-trip-weather/internal/itinerary"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

// Namer names a position. A failed lookup leaves the place blank.
type Namer interface {
	Name(ctx context.Context, lat, lon float64) (string, error)
}

// Observer is notified of every assembled report.
type Observer interface {
	ReportObserve(unavailable int)
}

// Day is one calendar date of the report.
type Day struct {
	Date      time.Time         `json:"date"`
	Lat       float64           `json:"lat"`
	Lon       float64           `json:"lon"`
	Place     string            `json:"place,omitempty"`
	High      float64           `json:"highC"`
	Low       float64           `json:"lowC"`
	Summary   string            `json:"summary,omitempty"`
	Condition weather.Condition `json:"condition,omitempty"`
	// InTransit is set when no waypoint falls on this date and the position
	// is the last one reached before it.
	InTransit bool   `json:"inTransit,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Report is the assembled trip report.
type Report struct {
	Window         trip.Window `json:"window"`
	TotalDistanceM float64     `json:"totalDistanceM"`
	TotalDays      int         `json:"totalDays"`
	Days           []Day       `json:"days"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}

// Unavailable counts the days without a forecast.
func (r Report) Unavailable() int {
	n := 0
	for _, d := range r.Days {
		if !d.Available {
			n++
		}
	}
	return n
}

// Assembler builds reports from timed tracks.
type Assembler struct {
	svc      *weather.Service
	namer    Namer
	observer Observer
}

// NewAssembler creates an Assembler. namer and observer may be nil.
func NewAssembler(svc *weather.Service, namer Namer, observer Observer) *Assembler {
	return &Assembler{svc: svc, namer: namer, observer: observer}
}

// Assemble samples one position per window date and looks up its weather.
// Lookup failures mark the day unavailable and never fail the report.
func (a *Assembler) Assemble(ctx context.Context, tracks []route.Track, w trip.Window) (Report, error) {
	points := route.FlattenTracks(tracks)
	if len(points) == 0 {
		return Report{}, itinerary.ErrNoRoutes
	}

	total, err := geo.PathLength(points)
	if err != nil {
		return Report{}, err
	}

	samples, err := itinerary.SampleDays(itinerary.Bucket(tracks))
	if err != nil {
		return Report{}, err
	}

	days, queries := plan(w, samples, points)
	results := a.svc.Daily(ctx, queries)

	for i, res := range results {
		d := &days[i]
		if res.Err != nil {
			log.Printf("WARN: no forecast for %s: %v", d.Date.Format(trip.DateLayout), res.Err)
			d.Error = res.Err.Error()
			continue
		}
		d.Available = true
		d.High = res.Summary.TemperatureMax
		d.Low = res.Summary.TemperatureMin
		d.Summary = res.Summary.Summary
		d.Condition = res.Summary.Condition
	}

	if a.namer != nil {
		for i := range days {
			name, err := a.namer.Name(ctx, days[i].Lat, days[i].Lon)
			if err != nil {
				log.Printf("DEBUG: no place name for %.4f,%.4f: %v", days[i].Lat, days[i].Lon, err)
				continue
			}
			days[i].Place = name
		}
	}

	r := Report{
		Window:         w,
		TotalDistanceM: total,
		TotalDays:      w.Days,
		Days:           days,
		GeneratedAt:    time.Now().UTC(),
	}
	if a.observer != nil {
		a.observer.ReportObserve(r.Unavailable())
	}
	return r, nil
}

// plan pairs every window date with the position to query. Dates without a
// bucket reuse the last waypoint reached before that date. points must be in
// timeline order.
func plan(w trip.Window, samples []itinerary.DaySample, points []route.Waypoint) ([]Day, []weather.Query) {
	byDate := make(map[string]itinerary.DaySample, len(samples))
	for _, s := range samples {
		byDate[s.Date.Format(trip.DateLayout)] = s
	}

	dates := w.Dates()
	days := make([]Day, 0, len(dates))
	queries := make([]weather.Query, 0, len(dates))

	last := 0
	for _, date := range dates {
		for last+1 < len(points) && points[last+1].Time.Before(date) {
			last++
		}

		if s, ok := byDate[date.Format(trip.DateLayout)]; ok {
			days = append(days, Day{Date: date, Lat: s.Point.Lat, Lon: s.Point.Lon})
			queries = append(queries, weather.Query{Lat: s.Point.Lat, Lon: s.Point.Lon, At: s.Point.Time})
			continue
		}

		p := points[last]
		days = append(days, Day{Date: date, Lat: p.Lat, Lon: p.Lon, InTransit: true})
		queries = append(queries, weather.Query{Lat: p.Lat, Lon: p.Lon, At: date})
	}
	return days, queries
}

// Title is the one-line trip summary.
func (r Report) Title() string {
	return fmt.Sprintf("Trip summary: %s", r.Window)
}
