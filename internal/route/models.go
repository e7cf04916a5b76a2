package route

import (
	"time"
)

// Waypoint is a single position along a route. Optional attributes are
// nil/empty when the source file does not carry them.
type Waypoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Elevation *float64 `json:"elevation,omitempty"` // meters

	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Description string `json:"description,omitempty"`

	// Dilution of precision.
	HDOP *float64 `json:"hdop,omitempty"`
	VDOP *float64 `json:"vdop,omitempty"`
	PDOP *float64 `json:"pdop,omitempty"`

	// Time is zero for untimed waypoints.
	Time time.Time `json:"time,omitempty"`
}

// WithTime returns a copy of the waypoint carrying the given timestamp.
func (w Waypoint) WithTime(t time.Time) Waypoint {
	w.Time = t
	return w
}

// Timed reports whether the waypoint carries a timestamp.
func (w Waypoint) Timed() bool {
	return !w.Time.IsZero()
}

// Route is an ordered, untimed sequence of waypoints in traversal order.
type Route struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Number      *int       `json:"number,omitempty"`
	Points      []Waypoint `json:"points"`
}

// Track is the timed counterpart of a Route.
type Track struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Number      *int         `json:"number,omitempty"`
	Segments    [][]Waypoint `json:"segments"`
}

// Points returns every waypoint of the track in segment order.
func (t Track) Points() []Waypoint {
	var n int
	for _, seg := range t.Segments {
		n += len(seg)
	}
	points := make([]Waypoint, 0, n)
	for _, seg := range t.Segments {
		points = append(points, seg...)
	}
	return points
}

// FlattenRoutes returns all waypoints of all routes as one continuous path.
func FlattenRoutes(routes []Route) []Waypoint {
	var points []Waypoint
	for _, r := range routes {
		points = append(points, r.Points...)
	}
	return points
}

// FlattenTracks returns all waypoints of all tracks in track order.
func FlattenTracks(tracks []Track) []Waypoint {
	var points []Waypoint
	for _, t := range tracks {
		points = append(points, t.Points()...)
	}
	return points
}
