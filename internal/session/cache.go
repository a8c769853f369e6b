// Package session holds short-lived, process-local snapshots: scrape sessions
// and deferred create payloads. Values are deep-copied on the way in and on the
// way out, so a caller can never mutate what another caller will read.
package session

import (
	"sort"
	"sync"
	"time"
)

// Options configures a Cache.
type Options struct {
	TTL      time.Duration
	Capacity int
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

type entry[T any] struct {
	value     T
	createdAt time.Time
	seq       uint64
}

// Cache is a TTL and capacity bounded map. Expired entries are dropped lazily
// on every access; on insert the oldest-created entries are evicted until the
// size is back within capacity.
type Cache[T any] struct {
	mu       sync.Mutex
	entries  map[string]entry[T]
	clone    func(T) T
	ttl      time.Duration
	capacity int
	now      func() time.Time
	seq      uint64
}

// NewCache creates a cache. clone must return a deep copy of its argument.
func NewCache[T any](opts Options, clone func(T) T) *Cache[T] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Cache[T]{
		entries:  make(map[string]entry[T]),
		clone:    clone,
		ttl:      opts.TTL,
		capacity: opts.Capacity,
		now:      now,
	}
}

// Put stores a copy of v under key, replacing any previous value.
func (c *Cache[T]) Put(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[key] = entry[T]{value: c.clone(v), createdAt: c.now(), seq: c.seq}
	c.pruneLocked()
}

// Get returns a copy of the value stored under key. Expired entries are
// reported as absent.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneExpiredLocked()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(e.value), true
}

// Delete removes key if present.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included until the
// next access prunes them.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Now returns the cache clock reading.
func (c *Cache[T]) Now() time.Time {
	return c.now()
}

func (c *Cache[T]) pruneLocked() {
	c.pruneExpiredLocked()
	if c.capacity <= 0 || len(c.entries) <= c.capacity {
		return
	}

	type aged struct {
		key       string
		createdAt time.Time
		seq       uint64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, createdAt: e.createdAt, seq: e.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].createdAt.Equal(all[j].createdAt) {
			return all[i].seq < all[j].seq
		}
		return all[i].createdAt.Before(all[j].createdAt)
	})
	for _, a := range all[:len(all)-c.capacity] {
		delete(c.entries, a.key)
	}
}

func (c *Cache[T]) pruneExpiredLocked() {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.createdAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}
