package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no forecast is cached for a key.
	ErrNotFound = errors.New("no cached forecast for key")
)

type entry struct {
	summary weather.DailySummary
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory forecast cache.
type MemoryStore struct {
	mu sync.RWMutex

	// key: query key, value: cached summary
	data map[string]entry
	// insertion order, oldest first
	order []string

	// retention configuration
	maxEntries int           // max number of cached keys
	maxAge     time.Duration // optional max age for entries

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save stores a summary under key and enforces retention.
func (s *MemoryStore) Save(_ context.Context, key string, summary weather.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		s.removeOrder(key)
	}
	s.data[key] = entry{summary: summary, savedAt: s.now()}
	s.order = append(s.order, key)

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.order); i++ {
			if !s.data[s.order[i]].savedAt.Before(cutoff) {
				break
			}
			delete(s.data, s.order[i])
		}
		s.order = s.order[i:]
	}

	// Enforce retention by count.
	if s.maxEntries > 0 && len(s.order) > s.maxEntries {
		over := len(s.order) - s.maxEntries
		for _, k := range s.order[:over] {
			delete(s.data, k)
		}
		s.order = s.order[over:]
	}
	return nil
}

// Get returns the cached summary for key, or ErrNotFound when it is missing
// or expired.
func (s *MemoryStore) Get(_ context.Context, key string) (weather.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.DailySummary{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(e.savedAt) > s.maxAge {
		return weather.DailySummary{}, ErrNotFound
	}
	return e.summary, nil
}

// Len returns the number of cached entries, expired ones included until the
// next Save prunes them.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) removeOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
