package route

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

const routeGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<rte>
		<name>R001</name>
		<desc>Banff to Canmore</desc>
		<number>1</number>
		<rtept lat="51.1784" lon="-115.5708">
			<ele>1383</ele>
			<name>Banff</name>
			<cmt>start</cmt>
			<sym>Flag</sym>
			<hdop>1.5</hdop>
		</rtept>
		<rtept lat="51.0891" lon="-115.3441">
			<name>Canmore</name>
		</rtept>
	</rte>
	<rte>
		<name>RA01</name>
		<rtept lat="51.0891" lon="-115.3441"/>
		<rtept lat="51.0" lon="-115.2"/>
	</rte>
</gpx>`

func TestParseRoutes(t *testing.T) {
	routes, err := Parse(strings.NewReader(routeGPX))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("Expected 2 routes, got %d", len(routes))
	}

	r := routes[0]
	if r.Name != "R001" || r.Description != "Banff to Canmore" {
		t.Errorf("Unexpected route metadata: %+v", r)
	}
	if r.Number == nil || *r.Number != 1 {
		t.Errorf("Expected route number 1, got %v", r.Number)
	}
	if len(r.Points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(r.Points))
	}

	first := r.Points[0]
	if first.Lat != 51.1784 || first.Lon != -115.5708 {
		t.Errorf("Unexpected position lat=%f lon=%f", first.Lat, first.Lon)
	}
	if first.Elevation == nil || *first.Elevation != 1383 {
		t.Errorf("Expected elevation 1383, got %v", first.Elevation)
	}
	if first.Name != "Banff" || first.Comment != "start" || first.Symbol != "Flag" {
		t.Errorf("Unexpected point metadata: %+v", first)
	}
	if first.HDOP == nil || *first.HDOP != 1.5 {
		t.Errorf("Expected hdop 1.5, got %v", first.HDOP)
	}
	if first.Timed() {
		t.Errorf("Expected untimed route point")
	}

	if routes[0].Points[1].Elevation != nil {
		t.Errorf("Expected missing elevation to stay nil")
	}
}

func TestParseFallsBackToTrackSegments(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<trk>
		<name>Loop</name>
		<trkseg>
			<trkpt lat="46.0" lon="7.0"/>
			<trkpt lat="46.1" lon="7.1"/>
		</trkseg>
		<trkseg>
			<trkpt lat="46.2" lon="7.2"/>
		</trkseg>
	</trk>
</gpx>`

	routes, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("Expected one route per segment, got %d", len(routes))
	}
	if routes[0].Name != "Loop" || len(routes[0].Points) != 2 || len(routes[1].Points) != 1 {
		t.Errorf("Unexpected routes: %+v", routes)
	}
}

func TestFilterMainRoutes(t *testing.T) {
	routes := []Route{
		{Name: "R001"},
		{Name: "RP12"},
		{Name: "RA01"},
		{Name: "R7xx"},
		{Name: "X"},
	}

	got := FilterMainRoutes(routes, "0,P,7")
	if len(got) != 3 {
		t.Fatalf("Expected 3 main routes, got %d", len(got))
	}
	for i, want := range []string{"R001", "RP12", "R7xx"} {
		if got[i].Name != want {
			t.Errorf("Route %d: expected %s, got %s", i, want, got[i].Name)
		}
	}

	if all := FilterMainRoutes(routes, ""); len(all) != len(routes) {
		t.Errorf("Expected empty codes to keep all routes")
	}
}

func TestWriteTracksRoundTrip(t *testing.T) {
	ele := 1000.0
	num := 3
	ts := time.Date(2020, 6, 1, 6, 30, 0, 0, time.UTC)

	tracks := []Track{{
		Name:   "Day one",
		Number: &num,
		Segments: [][]Waypoint{{
			{Lat: 46.0, Lon: 7.0, Elevation: &ele, Name: "A", Time: ts},
			{Lat: 46.1, Lon: 7.1, Time: ts.Add(time.Hour)},
		}},
	}}

	var buf bytes.Buffer
	if err := WriteTracks(&buf, tracks); err != nil {
		t.Fatalf("WriteTracks failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<trk>") || !strings.Contains(out, "2020-06-01T06:30:00Z") {
		t.Errorf("Unexpected GPX output:\n%s", out)
	}

	routes, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Parse of written GPX failed: %v", err)
	}
	if len(routes) != 1 || len(routes[0].Points) != 2 {
		t.Fatalf("Expected 1 route with 2 points, got %+v", routes)
	}
	if routes[0].Points[0].Name != "A" || *routes[0].Points[0].Elevation != ele {
		t.Errorf("Point attributes not preserved: %+v", routes[0].Points[0])
	}
}

func TestTrackPoints(t *testing.T) {
	tr := Track{Segments: [][]Waypoint{{{Lat: 1}, {Lat: 2}}, {{Lat: 3}}}}
	points := tr.Points()
	if len(points) != 3 || points[2].Lat != 3 {
		t.Errorf("Unexpected flattened points: %+v", points)
	}
}
