package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/i474232898/gpx-trip-weather/internal/config"
	"github.com/i474232898/gpx-trip-weather/internal/itinerary"
	"github.com/i474232898/gpx-trip-weather/internal/places"
	"github.com/i474232898/gpx-trip-weather/internal/report"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/store"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
	"github.com/i474232898/gpx-trip-weather/internal/weather"
	"github.com/i474232898/gpx-trip-weather/internal/weather/providers"
)

// stringsFlag collects a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("trip-weather", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var gpxFiles stringsFlag
	var (
		start      = fs.String("start", "", "Trip start date (YYYY-MM-DD)")
		end        = fs.String("end", "", "Trip end date (YYYY-MM-DD)")
		days       = fs.String("days", "", "Trip duration in days")
		outFile    = fs.String("out", "", "Write the timed route as GPX to this file")
		mainRoutes = fs.String("main-routes", "", "Keep only routes whose second name character is one of these codes, e.g. 0,P")
		units      = fs.String("units", string(cfg.Units), "Units for the report: metric or imperial")
		asJSON     = fs.Bool("json", false, "Print the report as JSON")
	)
	fs.Var(&gpxFiles, "gpx", "GPX route file (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "trip-weather - daily weather along a GPX route\n\n")
		fmt.Fprintf(stderr, "usage: trip-weather [--start DATE] [--end DATE] [--days N] --gpx FILE [FILE...]\n\n")
		fmt.Fprintf(stderr, "provide two of --start, --end and --days.\n\n")
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	gpxFiles = append(gpxFiles, fs.Args()...)

	if len(gpxFiles) == 0 {
		fs.Usage()
		return 2
	}

	req, err := tripRequest(*start, *end, *days, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	window, err := trip.Resolve(req)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	u, err := report.ParseUnits(*units)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	routes, err := route.ParseFiles(gpxFiles...)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading GPX file: %v\n", err)
		return 1
	}
	routes = route.FilterMainRoutes(routes, *mainRoutes)

	tracks, err := itinerary.Build(routes, window)
	if err != nil {
		fmt.Fprintf(stderr, "Error building timeline: %v\n", err)
		return 1
	}

	if *outFile != "" {
		if err := writeTimedGPX(*outFile, tracks); err != nil {
			fmt.Fprintf(stderr, "Error writing GPX file: %v\n", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provs, err := providers.Build(cfg.Providers, httpClient, providers.Keys{
		OpenWeather: cfg.OpenWeatherAPIKey,
		WeatherAPI:  cfg.WeatherAPIKey,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	service := weather.NewService(store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge), provs, weather.Options{
		LookupTimeout: cfg.LookupTimeout,
		Concurrency:   cfg.LookupConcurrency,
	})
	assembler := report.NewAssembler(service, places.NewNamer(cfg.GeocoderAPIKey), nil)

	rep, err := assembler.Assemble(ctx, tracks, window)
	if err != nil {
		fmt.Fprintf(stderr, "Error assembling report: %v\n", err)
		return 1
	}

	if *asJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error marshaling report: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	if err := report.WriteText(stdout, rep, u); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return 1
	}
	return 0
}

func tripRequest(start, end, days string, cfg *config.AppConfig) (trip.Request, error) {
	var req trip.Request
	if start != "" {
		t, err := trip.ParseDate(start, cfg.Location)
		if err != nil {
			return req, err
		}
		req.Start = &t
	}
	if end != "" {
		t, err := trip.ParseDate(end, cfg.Location)
		if err != nil {
			return req, err
		}
		req.End = &t
	}
	if days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return req, fmt.Errorf("days must be a whole number: %s", days)
		}
		req.Days = &n
	}
	return req, nil
}

func writeTimedGPX(path string, tracks []route.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := route.WriteTracks(f, tracks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
