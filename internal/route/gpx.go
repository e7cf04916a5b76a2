package route

import (
	"fmt"
	"io"
	"os"

	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "gpx-trip-weather"

// ParseFile reads routes from a GPX file.
func ParseFile(path string) ([]Route, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	routes, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return routes, nil
}

// Parse reads routes from GPX data. Files without <rte> elements fall back to
// their track segments, one route per segment.
func Parse(r io.Reader) ([]Route, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX: %w", err)
	}

	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	return fromGPX(g), nil
}

// ParseFiles combines the routes of several GPX files, in argument order.
func ParseFiles(paths ...string) ([]Route, error) {
	var routes []Route
	for _, p := range paths {
		rs, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rs...)
	}
	return routes, nil
}

// FilterMainRoutes keeps routes whose second name character is one of codes.
// Adventure Cycling names route segments like "R0xx" (main line) or "RPxx"
// (Canada); alternates carry other codes. An empty codes string keeps everything.
func FilterMainRoutes(routes []Route, codes string) []Route {
	if codes == "" {
		return routes
	}

	keep := make(map[rune]struct{}, len(codes))
	for _, c := range codes {
		if c == ',' || c == ' ' {
			continue
		}
		keep[c] = struct{}{}
	}

	var out []Route
	for _, r := range routes {
		name := []rune(r.Name)
		if len(name) < 2 {
			continue
		}
		if _, ok := keep[name[1]]; ok {
			out = append(out, r)
		}
	}
	return out
}

// WriteTracks serializes timed tracks as a GPX 1.1 document.
func WriteTracks(w io.Writer, tracks []Track) error {
	g := ToGPX(tracks)
	data, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ToGPX converts timed tracks into a gpxgo document.
func ToGPX(tracks []Track) *gpx.GPX {
	g := &gpx.GPX{
		Version: "1.1",
		Creator: creator,
	}

	for _, t := range tracks {
		trk := gpx.GPXTrack{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.Number != nil {
			trk.Number = *gpx.NewNullableInt(*t.Number)
		}
		for _, seg := range t.Segments {
			s := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(seg))}
			for _, w := range seg {
				s.Points = append(s.Points, toGPXPoint(w))
			}
			trk.Segments = append(trk.Segments, s)
		}
		g.Tracks = append(g.Tracks, trk)
	}

	return g
}

func fromGPX(g *gpx.GPX) []Route {
	var routes []Route

	for _, rte := range g.Routes {
		r := Route{
			Name:        rte.Name,
			Description: rte.Description,
			Number:      intPtr(rte.Number),
			Points:      make([]Waypoint, 0, len(rte.Points)),
		}
		for i := range rte.Points {
			r.Points = append(r.Points, fromGPXPoint(&rte.Points[i]))
		}
		routes = append(routes, r)
	}
	if len(routes) > 0 {
		return routes
	}

	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			r := Route{
				Name:        trk.Name,
				Description: trk.Description,
				Number:      intPtr(trk.Number),
				Points:      make([]Waypoint, 0, len(seg.Points)),
			}
			for i := range seg.Points {
				r.Points = append(r.Points, fromGPXPoint(&seg.Points[i]))
			}
			routes = append(routes, r)
		}
	}

	return routes
}

func fromGPXPoint(p *gpx.GPXPoint) Waypoint {
	// Timestamps in the source are dropped: routes are untimed input.
	return Waypoint{
		Lat:         p.Latitude,
		Lon:         p.Longitude,
		Elevation:   floatPtr(p.Elevation),
		Name:        p.Name,
		Symbol:      p.Symbol,
		Comment:     p.Comment,
		Description: p.Description,
		HDOP:        floatPtr(p.HorizontalDilution),
		VDOP:        floatPtr(p.VerticalDilution),
		PDOP:        floatPtr(p.PositionalDilution),
	}
}

func toGPXPoint(w Waypoint) gpx.GPXPoint {
	p := gpx.GPXPoint{
		Point: gpx.Point{
			Latitude:  w.Lat,
			Longitude: w.Lon,
		},
		Timestamp:   w.Time.UTC(),
		Name:        w.Name,
		Symbol:      w.Symbol,
		Comment:     w.Comment,
		Description: w.Description,
	}
	if w.Elevation != nil {
		p.Elevation = *gpx.NewNullableFloat64(*w.Elevation)
	}
	if w.HDOP != nil {
		p.HorizontalDilution = *gpx.NewNullableFloat64(*w.HDOP)
	}
	if w.VDOP != nil {
		p.VerticalDilution = *gpx.NewNullableFloat64(*w.VDOP)
	}
	if w.PDOP != nil {
		p.PositionalDilution = *gpx.NewNullableFloat64(*w.PDOP)
	}
	return p
}

func floatPtr(n gpx.NullableFloat64) *float64 {
	if n.Null() {
		return nil
	}
	v := n.Value()
	return &v
}

func intPtr(n gpx.NullableInt) *int {
	if n.Null() {
		return nil
	}
	v := n.Value()
	return &v
}
