// Package cache provides a small process-local cache safe for concurrent use.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache maps keys to values and remembers when each value was stored.
// Expiry is pull based: callers decide when to Evict.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	now     func() time.Time
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]entry[V]), now: time.Now}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.value, ok
}

func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, insertedAt: c.now()}
}

// Evict removes entries stored longer than maxAge ago and returns how many were removed.
func (c *Cache[K, V]) Evict(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxAge)
	removed := 0
	for k, e := range c.entries {
		if e.insertedAt.Before(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Values returns a snapshot of all values in no particular order.
func (c *Cache[K, V]) Values() []V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]V, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.value)
	}
	return out
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}
