package itinerary

import (
	"sort"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
)

// DayBucket holds the timed waypoints visited on one calendar date.
type DayBucket struct {
	Date   time.Time        `json:"date"` // midnight
	Points []route.Waypoint `json:"points"`
}

// Bucket groups every waypoint of the tracks by the calendar date of its
// timestamp, in the timestamp's own location. Buckets are sorted by date and
// the points of a bucket by time; points with equal timestamps keep traversal
// order.
func Bucket(tracks []route.Track) []DayBucket {
	type dayKey string

	byDay := make(map[dayKey]*DayBucket)
	var keys []string

	for _, p := range route.FlattenTracks(tracks) {
		k := dayKey(p.Time.Format(trip.DateLayout))
		b, ok := byDay[k]
		if !ok {
			b = &DayBucket{Date: trip.Midnight(p.Time)}
			byDay[k] = b
			keys = append(keys, string(k))
		}
		b.Points = append(b.Points, p)
	}

	sort.Strings(keys)

	buckets := make([]DayBucket, 0, len(keys))
	for _, k := range keys {
		b := byDay[dayKey(k)]
		sort.SliceStable(b.Points, func(i, j int) bool {
			return b.Points[i].Time.Before(b.Points[j].Time)
		})
		buckets = append(buckets, *b)
	}

	return buckets
}
