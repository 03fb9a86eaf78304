// Package cache holds the Redis read-through cache for slot availability.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Loader reads the value from the source of truth on a cache miss.
type Loader func(ctx context.Context) ([]string, error)

// AvailabilityCache caches the confirmed booking times of a venue on a day.
type AvailabilityCache interface {
	BookedTimes(ctx context.Context, venueID uuid.UUID, date string, load Loader) ([]string, error)
	Invalidate(ctx context.Context, venueID uuid.UUID, date string) error
}

func KeyBookedTimes(venueID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s", venueID.String(), date)
}

type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
	sf  singleflight.Group
	log *zap.Logger

	// loading marks keys with a load in flight; true once the key was
	// invalidated during that load, so the loaded value must not be stored.
	mu      sync.Mutex
	loading map[string]bool
}

func New(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With(zap.String("component", "availability_cache")),
		loading: make(map[string]bool),
	}
}

func (c *Cache) beginLoad(key string) {
	c.mu.Lock()
	c.loading[key] = false
	c.mu.Unlock()
}

// endLoad reports whether the key was invalidated since beginLoad.
func (c *Cache) endLoad(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	stale := c.loading[key]
	delete(c.loading, key)
	return stale
}

func (c *Cache) getJSON(ctx context.Context, key string) ([]string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *Cache) setJSON(ctx context.Context, key string, val []string) error {
	if val == nil {
		val = []string{}
	}
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, string(b), c.ttl).Err()
}

// BookedTimes returns the cached times or loads them once per key across
// concurrent callers. A Redis failure falls back to the loader.
func (c *Cache) BookedTimes(ctx context.Context, venueID uuid.UUID, date string, load Loader) ([]string, error) {
	key := KeyBookedTimes(venueID, date)

	if v, ok, err := c.getJSON(ctx, key); err == nil && ok {
		return v, nil
	} else if err != nil {
		c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return load(ctx)
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := c.getJSON(ctx, key); err == nil && ok {
			return v, nil
		}
		c.beginLoad(key)
		v, err := load(ctx)
		stale := c.endLoad(key)
		if err != nil {
			return nil, err
		}
		if stale {
			c.log.Debug("Skip cache write after invalidation", zap.String("key", key))
			return v, nil
		}
		if err := c.setJSON(ctx, key, v); err != nil {
			c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	v, ok := vAny.([]string)
	if !ok {
		return nil, errors.New("type assertion failed")
	}
	return v, nil
}

func (c *Cache) Invalidate(ctx context.Context, venueID uuid.UUID, date string) error {
	key := KeyBookedTimes(venueID, date)

	c.mu.Lock()
	if _, ok := c.loading[key]; ok {
		c.loading[key] = true
	}
	c.mu.Unlock()

	return c.rdb.Del(ctx, key).Err()
}

// Nop always calls the loader. It is used when Redis is not configured.
type Nop struct{}

func (Nop) BookedTimes(ctx context.Context, _ uuid.UUID, _ string, load Loader) ([]string, error) {
	return load(ctx)
}

func (Nop) Invalidate(context.Context, uuid.UUID, string) error {
	return nil
}
