// Package cache keeps moving-company names close at hand so the bids page
// does not have to fetch every mover on each view.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a company name is trusted.
const DefaultTTL = 10 * time.Minute

// MoverNames caches company names by mover id.
type MoverNames interface {
	// Lookup returns the cached names among ids; misses are absent.
	Lookup(ctx context.Context, ids []int64) (map[int64]string, error)
	// Store caches names.
	Store(ctx context.Context, names map[int64]string) error
}

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Redis is a MoverNames backed by Redis string keys with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Redis cache. A non-positive ttl uses DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func moverKey(id int64) string {
	return "hamanasi:mover:" + strconv.FormatInt(id, 10) + ":name"
}

// Lookup implements MoverNames.
func (c *Redis) Lookup(ctx context.Context, ids []int64) (map[int64]string, error) {
	found := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = moverKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading mover names: %w", err)
	}
	for i, v := range values {
		if name, ok := v.(string); ok && name != "" {
			found[ids[i]] = name
		}
	}
	return found, nil
}

// Store implements MoverNames.
func (c *Redis) Store(ctx context.Context, names map[int64]string) error {
	if len(names) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, moverKey(id), name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing mover names: %w", err)
	}
	return nil
}

// Noop is a MoverNames that never hits.
type Noop struct{}

// Lookup implements MoverNames.
func (Noop) Lookup(context.Context, []int64) (map[int64]string, error) {
	return map[int64]string{}, nil
}

// Store implements MoverNames.
func (Noop) Store(context.Context, map[int64]string) error { return nil }
