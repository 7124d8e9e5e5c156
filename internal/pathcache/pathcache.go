// Package pathcache caches resolved filesystem-style path -> uuid
// lookups per tenant/user, so repeated WebDAV/CMIS path traversal
// doesn't re-walk the tree on every request. Built on
// hashicorp/golang-lru/v2 for the bounded LRU storage, with a
// ticker-driven sweep for periodic TTL expiry.
package pathcache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is one cached resolution.
type entry struct {
	uuid      string
	expiresAt time.Time
}

// key isolates cache entries per tenant and per requesting principal,
// since path visibility depends on permissions: a resolution is only
// valid for the principal and tenant it was resolved under, and a
// cached hit for one user must never leak to another.
type key struct {
	tenant    string
	principal string
	path      string
}

// Cache is a bounded, TTL-expiring path resolution cache.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache[key, entry]
	ttl   time.Duration
	stop  chan struct{}
	stats Stats
}

// Stats is the aggregate-counters snapshot for cache monitoring.
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	Size          int
}

// HitRate returns Hits / (Hits + Misses), or 0 when no lookups have
// happened yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config configures a Cache.
type Config struct {
	MaxEntries int           // default 10000
	TTL        time.Duration // default 300s
	SweepEvery time.Duration // default 60s, independent of TTL
}

// New builds a Cache and starts its background sweep goroutine. Call
// Close to stop the sweep when the cache is no longer needed.
func New(cfg Config) *Cache {
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = 10000
	}
	if cfg.TTL == 0 {
		cfg.TTL = 300 * time.Second
	}
	if cfg.SweepEvery == 0 {
		cfg.SweepEvery = 60 * time.Second
	}
	backing, _ := lru.New[key, entry](cfg.MaxEntries)
	c := &Cache{lru: backing, ttl: cfg.TTL, stop: make(chan struct{})}
	go c.sweepLoop(cfg.SweepEvery)
	return c
}

// Close stops the background sweep goroutine.
func (c *Cache) Close() { close(c.stop) }

// Get returns the cached uuid for (tenant, principal, path), if present
// and not expired.
func (c *Cache) Get(tenant, principal, path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key{tenant, principal, path}
	e, ok := c.lru.Get(k)
	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			c.lru.Remove(k)
		}
		c.stats.Misses++
		return "", false
	}
	c.stats.Hits++
	return e.uuid, true
}

// Put caches uuid as the resolution for (tenant, principal, path).
func (c *Cache) Put(tenant, principal, path, uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key{tenant, principal, path}, entry{uuid: uuid, expiresAt: time.Now().Add(c.ttl)})
}

// Invalidate drops every cached entry under the given tenant whose path
// starts with prefix: NodeUpdated/Deleted/Moved invalidates every
// cached path at or below the affected node. Since the LRU library has
// no prefix-scan, this walks its current key set, acceptable because
// invalidation is driven by infrequent write events,
// not by the read-hot Get path.
func (c *Cache) Invalidate(tenant, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if k.tenant == tenant && hasPathPrefix(k.path, prefix) {
			c.lru.Remove(k)
			c.stats.Invalidations++
		}
	}
}

// InvalidateByUUID drops every cached entry resolving to uuid within
// tenant, the fallback when a caller knows the uuid but
// not the path it was reached by. A linear scan, acceptable for the same
// reason Invalidate's prefix scan is: driven by infrequent writes.
func (c *Cache) InvalidateByUUID(tenant, uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if k.tenant != tenant {
			continue
		}
		if e, ok := c.lru.Peek(k); ok && e.uuid == uuid {
			c.lru.Remove(k)
			c.stats.Invalidations++
		}
	}
}

// InvalidateAll drops every cached entry for tenant, used when a
// permission-affecting change can't be scoped to a single subtree (e.g.
// a group membership change).
func (c *Cache) InvalidateAll(tenant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if k.tenant == tenant {
			c.lru.Remove(k)
			c.stats.Invalidations++
		}
	}
}

// Stats returns a snapshot of the cache's hit/miss/eviction/invalidation
// counters plus current size and hit rate.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.lru.Len()
	return s
}

func (c *Cache) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweepExpired()
		}
	}
}

func (c *Cache) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for _, k := range c.lru.Keys() {
		e, ok := c.lru.Peek(k)
		if ok && now.After(e.expiresAt) {
			c.lru.Remove(k)
			c.stats.Evictions++
		}
	}
}

func hasPathPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	if len(path) < len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix
}
