package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrLookup is returned when no provider produced a forecast for a day.
	ErrLookup = errors.New("weather lookup failed")
	// ErrNoProviders is returned when the service has nothing to query.
	ErrNoProviders = errors.New("no weather providers configured")
)

// Options tunes the per-day dispatch.
type Options struct {
	// LookupTimeout bounds each daily lookup, retries included.
	LookupTimeout time.Duration
	// Concurrency caps how many days are looked up at once.
	Concurrency int
	Metrics     Metrics
}

// Service orchestrates fetching from multiple providers and caching daily summaries.
type Service struct {
	store     Store
	providers []Provider
	opts      Options
}

// NewService creates a new Service. store may be nil to disable caching.
func NewService(store Store, providers []Provider, opts Options) *Service {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 10 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Service{
		store:     store,
		providers: providers,
		opts:      opts,
	}
}

// Daily looks up every query concurrently. Results come back in query order;
// a failed day carries an error wrapping ErrLookup and never affects the others.
func (s *Service) Daily(ctx context.Context, queries []Query) []Result {
	results := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, s.opts.LookupTimeout)
			defer cancel()

			summary, err := s.Lookup(lctx, q)
			results[i] = Result{Query: q, Summary: summary, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Lookup returns the daily summary for a single query, served from the cache
// when possible. Providers are queried concurrently and successful readings
// are aggregated.
func (s *Service) Lookup(ctx context.Context, q Query) (DailySummary, error) {
	key := q.Key()

	if s.store != nil {
		if cached, err := s.store.Get(ctx, key); err == nil {
			s.cacheHit()
			return cached, nil
		}
		s.cacheMiss()
	}

	if len(s.providers) == 0 {
		log.Printf("ERROR: No providers available to fetch weather for %s", key)
		return DailySummary{}, fmt.Errorf("%w: %w", ErrLookup, ErrNoProviders)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
		errs     []error
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			r, err := p.Lookup(ctx, q.Lat, q.Lon, q.At)
			s.observe(p.Name(), time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("provider %s lookup failed for %s: %v", p.Name(), key, err)
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
				return
			}
			readings = append(readings, r)
		}()
	}

	wg.Wait()

	if len(readings) == 0 {
		return DailySummary{}, fmt.Errorf("%w for %s: %w", ErrLookup, q.Date(), errors.Join(errs...))
	}

	// Keep provider order stable regardless of completion order.
	ordered := make([]ProviderReading, 0, len(readings))
	for _, p := range s.providers {
		for _, r := range readings {
			if r.ProviderName == p.Name() {
				ordered = append(ordered, r)
			}
		}
	}
	if len(ordered) != len(readings) {
		ordered = readings
	}

	y, m, d := q.At.Date()
	summary := AggregateReadings(time.Date(y, m, d, 0, 0, 0, 0, q.At.Location()), ordered)

	if s.store != nil {
		if err := s.store.Save(ctx, key, summary); err != nil {
			log.Printf("WARN: failed to cache forecast for %s: %v", key, err)
		}
	}
	return summary, nil
}

func (s *Service) observe(provider string, d time.Duration, err error) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.LookupObserve(provider, d, err)
	}
}

func (s *Service) cacheHit() {
	if s.opts.Metrics != nil {
		s.opts.Metrics.CacheHit()
	}
}

func (s *Service) cacheMiss() {
	if s.opts.Metrics != nil {
		s.opts.Metrics.CacheMiss()
	}
}
