package resolve

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a resolution stays reusable.
const DefaultCacheTTL = 5 * time.Minute

// Cache is a TTL map of resolutions keyed by intent fingerprint. It is
// invalidated wholesale on graph rebuild, never per entry. Concurrent misses
// on the same key may both recompute; resolution is deterministic, so the
// duplicate work is wasted but harmless.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	res     QueryResolution
	expires time.Time
}

// NewCache creates a cache. A non-positive TTL falls back to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a live cached resolution.
func (c *Cache) Get(key string) (QueryResolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return QueryResolution{}, false
	}
	return e.res, true
}

// Put stores a resolution under the key.
func (c *Cache) Put(key string, res QueryResolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{res: res, expires: c.now().Add(c.ttl)}
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of stored entries, live or expired.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
