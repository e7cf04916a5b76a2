package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

func summary(max float64) weather.DailySummary {
	return weather.DailySummary{
		Date:           time.Date(2020, 6, 2, 0, 0, 0, 0, time.UTC),
		TemperatureMax: max,
		TemperatureMin: max - 10,
		Summary:        "Clear sky",
		Condition:      weather.ConditionClear,
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore(0, 0)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreSaveAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, 0)

	_ = s.Save(ctx, "k", summary(20))
	_ = s.Save(ctx, "k", summary(25))

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TemperatureMax != 25 {
		t.Errorf("expected overwritten value 25, got %v", got.TemperatureMax)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestMemoryStoreMaxEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, 0)

	_ = s.Save(ctx, "a", summary(1))
	_ = s.Save(ctx, "b", summary(2))
	_ = s.Save(ctx, "c", summary(3))

	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected oldest entry evicted, got %v", err)
	}
	for _, k := range []string{"b", "c"} {
		if _, err := s.Get(ctx, k); err != nil {
			t.Errorf("expected %s to be kept: %v", k, err)
		}
	}
}

func TestMemoryStoreMaxAge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, time.Hour)
	now := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.Save(ctx, "old", summary(1))
	now = now.Add(2 * time.Hour)

	if _, err := s.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}

	_ = s.Save(ctx, "new", summary(2))
	if s.Len() != 1 {
		t.Errorf("expected expired entry pruned on save, got %d entries", s.Len())
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	s := NewRedisStore(client, time.Hour)

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Save(ctx, "k", summary(21)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TemperatureMax != 21 || got.Condition != weather.ConditionClear || !got.Date.Equal(summary(21).Date) {
		t.Errorf("unexpected summary %+v", got)
	}

	if ttl := mr.TTL(defaultKeyPrefix + "k"); ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired key to miss, got %v", err)
	}
}

func TestRedisStoreImplementsWeatherStore(t *testing.T) {
	var _ weather.Store = (*RedisStore)(nil)
	var _ weather.Store = (*MemoryStore)(nil)
}
