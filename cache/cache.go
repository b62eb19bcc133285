// Package cache provides the process-local TTL cache used for AI answers.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores string values with a per-entry time to live.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Evict(key string)
}

// MemoryCache is a Cache backed by go-cache. Writes to the same key are
// last-writer-wins.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a cache whose entries default to ttl and whose
// expired entries are purged every cleanup interval.
func NewMemoryCache(ttl, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, cleanup)}
}

// Get returns a live entry.
func (m *MemoryCache) Get(key string) (string, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores value under key. A zero ttl uses the cache default.
func (m *MemoryCache) Set(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.items.Set(key, value, ttl)
}

// Evict removes key.
func (m *MemoryCache) Evict(key string) {
	m.items.Delete(key)
}

// Len reports the number of entries, including expired ones not yet purged.
func (m *MemoryCache) Len() int {
	return m.items.ItemCount()
}
