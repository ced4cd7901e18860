// Package cache stores JSON encoded values in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoClient is returned by every operation of a cache without a client
var ErrNoClient = errors.New("redis client is nil")

// ICache defines a general caching interface
type ICache[T any] interface {
	Get(context.Context, string) (*T, error)
	Set(context.Context, string, *T, ...time.Duration) error
	Delete(context.Context, string) error
	GetMultiple(context.Context, []string) (map[string]*T, error)
	SetMultiple(context.Context, map[string]*T, ...time.Duration) error
	Exists(context.Context, string) (bool, error)
	TTL(context.Context, string) (time.Duration, error)
}

// Stats counts cache lookups
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// Cache implements the ICache interface
type Cache[T any] struct {
	rc     *redis.Client
	prefix string

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// NewCache creates a new Cache instance; keys are stored as prefix:field
func NewCache[T any](rc *redis.Client, prefix string) *Cache[T] {
	return &Cache[T]{rc: rc, prefix: prefix}
}

// Key defines the cache key
func (c *Cache[T]) Key(field string) string {
	if c.prefix != "" {
		return fmt.Sprintf("%s:%s", c.prefix, field)
	}
	return field
}

func (c *Cache[T]) record(err error) error {
	if err != nil {
		c.errors.Add(1)
	}
	return err
}

// Get retrieves a single item. A miss returns nil, nil.
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if c.rc == nil {
		return nil, c.record(ErrNoClient)
	}

	result, err := c.rc.Get(ctx, c.Key(field)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, nil
	}
	if err != nil {
		return nil, c.record(fmt.Errorf("failed to get cache: %w", err))
	}

	var row T
	if err := json.Unmarshal(result, &row); err != nil {
		return nil, c.record(fmt.Errorf("failed to unmarshal cache data: %w", err))
	}
	c.hits.Add(1)
	return &row, nil
}

// Set saves a single item; without an expiration the key never expires
func (c *Cache[T]) Set(ctx context.Context, field string, data *T, expire ...time.Duration) error {
	if c.rc == nil {
		return c.record(ErrNoClient)
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return c.record(fmt.Errorf("failed to marshal data: %w", err))
	}

	if err := c.rc.Set(ctx, c.Key(field), bytes, expiration(expire)).Err(); err != nil {
		return c.record(fmt.Errorf("failed to set cache: %w", err))
	}
	return nil
}

// Delete removes data from cache
func (c *Cache[T]) Delete(ctx context.Context, field string) error {
	if c.rc == nil {
		return c.record(ErrNoClient)
	}
	if err := c.rc.Del(ctx, c.Key(field)).Err(); err != nil {
		return c.record(fmt.Errorf("failed to delete cache: %w", err))
	}
	return nil
}

// GetMultiple retrieves the present items of fields with one MGET
func (c *Cache[T]) GetMultiple(ctx context.Context, fields []string) (map[string]*T, error) {
	if c.rc == nil {
		return nil, c.record(ErrNoClient)
	}

	result := make(map[string]*T, len(fields))
	if len(fields) == 0 {
		return result, nil
	}

	keys := make([]string, len(fields))
	for i, field := range fields {
		keys[i] = c.Key(field)
	}

	values, err := c.rc.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, c.record(fmt.Errorf("failed to get multiple cache: %w", err))
	}

	for i, val := range values {
		s, ok := val.(string)
		if !ok || s == "" {
			c.misses.Add(1)
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			c.misses.Add(1)
			continue
		}
		c.hits.Add(1)
		result[fields[i]] = &item
	}
	return result, nil
}

// SetMultiple saves items through a pipeline
func (c *Cache[T]) SetMultiple(ctx context.Context, items map[string]*T, expire ...time.Duration) error {
	if c.rc == nil {
		return c.record(ErrNoClient)
	}
	if len(items) == 0 {
		return nil
	}

	exp := expiration(expire)
	pipe := c.rc.Pipeline()
	for field, data := range items {
		bytes, err := json.Marshal(data)
		if err != nil {
			return c.record(fmt.Errorf("failed to marshal data for field %s: %w", field, err))
		}
		pipe.Set(ctx, c.Key(field), bytes, exp)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return c.record(fmt.Errorf("failed to set multiple cache: %w", err))
	}
	return nil
}

// Exists checks if cache key exists
func (c *Cache[T]) Exists(ctx context.Context, field string) (bool, error) {
	if c.rc == nil {
		return false, c.record(ErrNoClient)
	}
	n, err := c.rc.Exists(ctx, c.Key(field)).Result()
	if err != nil {
		return false, c.record(fmt.Errorf("failed to check cache existence: %w", err))
	}
	return n > 0, nil
}

// TTL returns the remaining time to live of a key
func (c *Cache[T]) TTL(ctx context.Context, field string) (time.Duration, error) {
	if c.rc == nil {
		return 0, c.record(ErrNoClient)
	}
	ttl, err := c.rc.TTL(ctx, c.Key(field)).Result()
	if err != nil {
		return 0, c.record(fmt.Errorf("failed to get cache ttl: %w", err))
	}
	return ttl, nil
}

// Stats returns the lookup counters
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

func expiration(expire []time.Duration) time.Duration {
	if len(expire) > 0 && expire[0] > 0 {
		return expire[0]
	}
	return 0
}
