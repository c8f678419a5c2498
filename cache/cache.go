// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Typed, goroutine-safe cache that collapses concurrent loads of the same key

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache stores values of one type for a fixed TTL.
type Cache[V any] struct {
	store  sync.Map
	ttl    time.Duration
	group  singleflight.Group
	cancel context.CancelFunc
}

// New creates a cache and starts its cleanup loop. Call Close to stop it.
func New[V any](ttl time.Duration) *Cache[V] {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[V]{
		ttl:    ttl,
		cancel: cancel,
	}
	go c.startCleanup(ctx, time.Minute)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		var zero V
		return zero, false
	}

	e := val.(entry[V])
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		var zero V
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.store.Store(key, entry[V]{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// GetOrLoad returns the cached value for key, or calls load once for all
// concurrent callers and caches its result. Load errors are not cached.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		val, err := load()
		if err != nil {
			return val, err
		}
		c.Set(key, val)
		return val, nil
	})
	return v.(V), err
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// Close stops the background cleanup loop
func (c *Cache[V]) Close() {
	c.cancel()
}

func (c *Cache[V]) startCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.store.Range(func(key, val any) bool {
				if now.After(val.(entry[V]).expiresAt) {
					c.store.Delete(key)
				}
				return true
			})
		}
	}
}
