package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/gpx-trip-weather/internal/plans"
	"github.com/i474232898/gpx-trip-weather/internal/report"
)

// Observer receives the outcome of every plan refresh.
type Observer interface {
	RefreshObserve(err error)
}

// Scheduler periodically re-assembles the weather report of every saved plan,
// so forecasts sharpen as the trip approaches.
type Scheduler struct {
	scheduler *gocron.Scheduler
	plans     *plans.Registry
	assembler *report.Assembler
	interval  time.Duration
	timeout   time.Duration
	observer  Observer
}

// New creates a new Scheduler. observer may be nil.
func New(registry *plans.Registry, assembler *report.Assembler, interval time.Duration, observer Observer) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		plans:     registry,
		assembler: assembler,
		interval:  interval,
		timeout:   2 * time.Minute,
		observer:  observer,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens one interval after Start.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 180
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RefreshAll(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: refreshing saved plans every %d minutes", minutes)
	return nil
}

// RefreshAll re-assembles every saved plan concurrently. A failed plan keeps
// its previous report.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	all := s.plans.List()
	if len(all) == 0 {
		log.Println("scheduler: no saved plans; nothing to refresh")
		return
	}

	log.Printf("scheduler: refreshing %d plans", len(all))

	var wg sync.WaitGroup
	for _, p := range all {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			rep, err := s.assembler.Assemble(ctx, p.Tracks, p.Window)
			if err == nil {
				_, err = s.plans.UpdateReport(p.ID, rep)
			}
			if s.observer != nil {
				s.observer.RefreshObserve(err)
			}
			if err != nil {
				log.Printf("scheduler: refresh failed for plan %s: %v", p.ID, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed plan refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
