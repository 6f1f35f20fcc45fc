// Package cache provides in-process caching infrastructure.
package cache

import (
	"strings"
	"sync"
	"time"

	"faturah/internal/domain/documents"
)

// ListCache is a TTL cache for document list results. Invalidation is
// synchronous and prefix-based: a write under one tenant+kind drops
// every cached page of that tenant+kind before the write returns, so a
// subsequent read never sees a stale list. Entries for other tenants
// are untouched.
type ListCache struct {
	mu      sync.RWMutex
	entries map[string]listEntry
	ttl     time.Duration

	now func() time.Time // test seam
}

type listEntry struct {
	value     any
	expiresAt time.Time
}

var _ documents.ListCache = (*ListCache)(nil)

// NewListCache creates a cache with the given entry TTL.
func NewListCache(ttl time.Duration) *ListCache {
	return &ListCache{
		entries: make(map[string]listEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value if present and not expired.
func (c *ListCache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; Set may have refreshed it.
		if e, ok := c.entries[key]; ok && c.now().After(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores a value under key.
func (c *ListCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = listEntry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// InvalidatePrefix synchronously drops every entry whose key starts
// with prefix.
func (c *ListCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of live entries; expired ones still count
// until read or invalidated.
func (c *ListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
