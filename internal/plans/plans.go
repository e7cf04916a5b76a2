package plans

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/gpx-trip-weather/internal/report"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
)

var (
	// ErrNotFound is returned when no plan exists for an id.
	ErrNotFound = errors.New("plan not found")
)

// Plan is a saved itinerary together with its latest report.
type Plan struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Window    trip.Window   `json:"window"`
	Tracks    []route.Track `json:"-"`
	Report    report.Report `json:"report"`
}

// Registry is a concurrency-safe in-memory plan store.
type Registry struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

func NewRegistry() *Registry {
	return &Registry{plans: make(map[string]Plan)}
}

// Create assigns an id and timestamps to p and stores it.
func (r *Registry) Create(p Plan) Plan {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID] = p
	return p
}

func (r *Registry) Get(id string) (Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return Plan{}, ErrNotFound
	}
	return p, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

// List returns every plan, oldest first.
func (r *Registry) List() []Plan {
	r.mu.RLock()
	out := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// UpdateReport replaces the report of a plan.
func (r *Registry) UpdateReport(id string, rep report.Report) (Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plans[id]
	if !ok {
		return Plan{}, ErrNotFound
	}
	p.Report = rep
	p.UpdatedAt = time.Now().UTC()
	r.plans[id] = p
	return p, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plans)
}
