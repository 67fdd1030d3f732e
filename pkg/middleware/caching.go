package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

// KeyFunc derives the cache key for a request. Returning false exempts
// the request from caching (e.g. commands flowing through a chain shared
// with cacheable queries).
type KeyFunc func(request mediator.Request) (string, bool)

// Cache is a TTL cache of successful pipeline results. It is the only
// mutable state shared between concurrent dispatches, guarded by a
// read-write mutex so no reader ever observes a partially written entry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result    mediator.Result
	expiresAt time.Time
}

// NewCache creates a cache whose entries expire ttl after being stored.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for key if present and not expired.
// Expired entries are dropped on access.
func (c *Cache) Get(key string) (mediator.Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return mediator.Result{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.Invalidate(key)
		return mediator.Result{}, false
	}
	return entry.result, true
}

// Set stores a result under key with the configured TTL.
func (c *Cache) Set(key string, result mediator.Result) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{result: result, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate removes the entry for key, if any. Hosts call it when they
// know the underlying data changed before the TTL elapses.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Caching returns a middleware that short-circuits with the cached result
// on a hit and stores successful results on a miss. Failures are never
// cached: a transient failure must not outlive the call that observed it.
func Caching(cache *Cache, key KeyFunc) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		k, cacheable := key(request)
		if !cacheable {
			return next(ctx, request)
		}

		if result, ok := cache.Get(k); ok {
			return result
		}

		result := next(ctx, request)
		if result.IsSuccess() {
			cache.Set(k, result)
		}
		return result
	}
}
