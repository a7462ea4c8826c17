package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/storefront/internal/metrics"
)

// CacheSchemaVersion is the current version of the cache entry layout.
// Increment this when cachedPartition changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedPartition wraps raw partition bytes with version metadata
type cachedPartition struct {
	Version  string
	Value    []byte
	Found    bool
	CachedAt time.Time
}

// CachedBackend is a write-through read cache in front of another Backend.
// Concurrent misses on one key share a single backend read. A read only
// fills the cache if no write or delete of its key happened meanwhile.
type CachedBackend struct {
	inner Backend
	lru   *expirable.LRU[string, *cachedPartition]
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

// NewCachedBackend wraps inner with an LRU of size entries expiring after ttl
func NewCachedBackend(inner Backend, size int, ttl time.Duration) *CachedBackend {
	return &CachedBackend{
		inner: inner,
		lru:   expirable.NewLRU[string, *cachedPartition](size, nil, ttl),
		gen:   make(map[string]uint64),
	}
}

func (c *CachedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if entry, ok := c.lru.Get(key); ok {
		if entry.Version == CacheSchemaVersion {
			metrics.StoreCacheHits.Inc()
			if !entry.Found {
				return nil, ErrNotFound
			}
			return append([]byte(nil), entry.Value...), nil
		}
		c.lru.Remove(key)
	}
	metrics.StoreCacheMisses.Inc()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		started := c.generation(key)
		value, err := c.inner.Get(ctx, key)
		switch {
		case err == nil:
			c.fill(key, started, value, true)
		case errors.Is(err, ErrNotFound):
			c.fill(key, started, nil, false)
		}
		return value, err
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), v.([]byte)...), nil
}

func (c *CachedBackend) Set(ctx context.Context, key string, value []byte) error {
	err := c.inner.Set(ctx, key, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(key)
	if err != nil {
		c.lru.Remove(key)
		return err
	}
	c.store(key, value, true)
	return nil
}

func (c *CachedBackend) Delete(ctx context.Context, key string) error {
	err := c.inner.Delete(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(key)
	c.lru.Remove(key)
	return err
}

// Invalidate drops key so the next read goes to the backend
func (c *CachedBackend) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump(key)
	c.lru.Remove(key)
}

// Ping forwards to the inner backend when it supports readiness checks
func (c *CachedBackend) Ping(ctx context.Context) error {
	if p, ok := c.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *CachedBackend) Close() error {
	c.lru.Purge()
	return c.inner.Close()
}

func (c *CachedBackend) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

// bump marks key as changed and detaches any read in flight so later
// readers do not join it. Caller holds c.mu.
func (c *CachedBackend) bump(key string) {
	c.gen[key]++
	c.group.Forget(key)
}

// fill caches a backend read unless key changed since the read started
func (c *CachedBackend) fill(key string, started uint64, value []byte, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[key] != started {
		return
	}
	c.store(key, value, found)
}

func (c *CachedBackend) store(key string, value []byte, found bool) {
	c.lru.Add(key, &cachedPartition{
		Version:  CacheSchemaVersion,
		Value:    append([]byte(nil), value...),
		Found:    found,
		CachedAt: time.Now(),
	})
}
