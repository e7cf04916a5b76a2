package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/itinerary"
	"github.com/i474232898/gpx-trip-weather/internal/plans"
	"github.com/i474232898/gpx-trip-weather/internal/report"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

type warmingProvider struct {
	calls atomic.Int32
}

func (p *warmingProvider) Name() string { return "fake" }

// Each call reports a warmer day, so a refreshed report differs from the last.
func (p *warmingProvider) Lookup(context.Context, float64, float64, time.Time) (weather.ProviderReading, error) {
	n := float64(p.calls.Add(1))
	return weather.ProviderReading{ProviderName: "fake", TemperatureMaxC: 10 + n, TemperatureMinC: n, Summary: "Clear sky", Condition: weather.ConditionClear}, nil
}

type outcomes struct {
	mu       sync.Mutex
	ok, fail int
}

func (o *outcomes) RefreshObserve(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.fail++
		return
	}
	o.ok++
}

func savedPlan(t *testing.T, reg *plans.Registry) plans.Plan {
	t.Helper()
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	days := 2
	w, err := trip.Resolve(trip.Request{Start: &start, Days: &days})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	tracks, err := itinerary.Build([]route.Route{{Points: []route.Waypoint{
		{Lat: 49.0, Lon: -114.0},
		{Lat: 49.2, Lon: -114.0},
	}}}, w)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg.Create(plans.Plan{Window: w, Tracks: tracks})
}

func TestRefreshAllUpdatesReports(t *testing.T) {
	reg := plans.NewRegistry()
	good := savedPlan(t, reg)
	broken := reg.Create(plans.Plan{})

	prov := &warmingProvider{}
	asm := report.NewAssembler(weather.NewService(nil, []weather.Provider{prov}, weather.Options{}), nil, nil)
	obs := &outcomes{}

	s := New(reg, asm, time.Hour, obs)
	s.RefreshAll(context.Background())

	got, err := reg.Get(good.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Report.Days) != 2 || !got.Report.Days[0].Available {
		t.Fatalf("expected refreshed report with 2 available days, got %+v", got.Report)
	}
	if got.UpdatedAt.Before(good.UpdatedAt) {
		t.Errorf("expected UpdatedAt to move forward")
	}

	b, _ := reg.Get(broken.ID)
	if len(b.Report.Days) != 0 {
		t.Errorf("expected broken plan to keep its empty report")
	}

	if obs.ok != 1 || obs.fail != 1 {
		t.Errorf("expected 1 ok and 1 failed refresh, got %d/%d", obs.ok, obs.fail)
	}
	if prov.calls.Load() != 2 {
		t.Errorf("expected 2 lookups, got %d", prov.calls.Load())
	}
}

func TestRefreshAllReassemblesEachRun(t *testing.T) {
	reg := plans.NewRegistry()
	p := savedPlan(t, reg)

	asm := report.NewAssembler(weather.NewService(nil, []weather.Provider{&warmingProvider{}}, weather.Options{Concurrency: 1}), nil, nil)
	s := New(reg, asm, time.Hour, nil)

	s.RefreshAll(context.Background())
	first, _ := reg.Get(p.ID)
	s.RefreshAll(context.Background())
	second, _ := reg.Get(p.ID)

	if second.Report.Days[0].High <= first.Report.Days[0].High {
		t.Errorf("expected a fresh forecast, got %v then %v", first.Report.Days[0].High, second.Report.Days[0].High)
	}
}

func TestRefreshAllWithoutPlans(t *testing.T) {
	asm := report.NewAssembler(weather.NewService(nil, nil, weather.Options{}), nil, nil)
	s := New(plans.NewRegistry(), asm, time.Hour, nil)
	s.RefreshAll(context.Background())
}

func TestStartStop(t *testing.T) {
	asm := report.NewAssembler(weather.NewService(nil, nil, weather.Options{}), nil, nil)
	s := New(plans.NewRegistry(), asm, 0, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}

var _ Observer = (*outcomes)(nil)
