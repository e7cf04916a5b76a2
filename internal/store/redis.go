package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/gpx-trip-weather/internal/weather"
)

const defaultKeyPrefix = "forecast:"

// RedisStore caches forecasts in Redis as JSON with a TTL, so several API
// instances share lookups.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore wraps an existing client. A ttl <= 0 keeps entries forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (weather.DailySummary, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return weather.DailySummary{}, ErrNotFound
	}
	if err != nil {
		return weather.DailySummary{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var summary weather.DailySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return weather.DailySummary{}, fmt.Errorf("decode cached forecast %s: %w", key, err)
	}
	return summary, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, summary weather.DailySummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
