package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
)

const latestReadingKey = "reading:latest"

// ReadingCache keeps the most recent reading in Redis so the query API can
// answer /data/latest without touching the store. Best-effort only: cache
// errors are the caller's to log, never to act on.
type ReadingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int, ttl time.Duration) (*ReadingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to redis: %w", err)
	}
	return &ReadingCache{client: client, ttl: ttl}, nil
}

// SetLatestReading stores the reading as JSON under a TTL key.
func (c *ReadingCache) SetLatestReading(ctx context.Context, r model.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache: marshal reading: %w", err)
	}
	if err := c.client.Set(ctx, latestReadingKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set latest reading: %w", err)
	}
	return nil
}

// LatestReading returns the cached reading; ok is false on a miss.
func (c *ReadingCache) LatestReading(ctx context.Context) (model.Reading, bool, error) {
	data, err := c.client.Get(ctx, latestReadingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Reading{}, false, nil
	}
	if err != nil {
		return model.Reading{}, false, fmt.Errorf("cache: get latest reading: %w", err)
	}
	var r model.Reading
	if err := json.Unmarshal(data, &r); err != nil {
		return model.Reading{}, false, fmt.Errorf("cache: unmarshal reading: %w", err)
	}
	return r, true, nil
}

func (c *ReadingCache) Close() error {
	return c.client.Close()
}
