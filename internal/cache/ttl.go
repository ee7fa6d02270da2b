// Package cache provides a bounded, time-limited in-memory store.
package cache

import (
	"sync"
	"time"
)

type stamp struct {
	key string
	at  time.Time
}

type item[V any] struct {
	value V
	at    time.Time
}

// TTL keeps at most capacity values, each for at most ttl after it was stored.
// Oldest writes are evicted first.
type TTL[V any] struct {
	mu       sync.Mutex
	items    map[string]item[V]
	order    []stamp
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// New creates a cache with the provided capacity and ttl.
func New[V any](capacity int, ttl time.Duration) *TTL[V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TTL[V]{
		items:    make(map[string]item[V], capacity),
		order:    make([]stamp, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value stored under key if it is still fresh.
func (c *TTL[V]) Get(key string) (V, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok || now.Sub(it.at) > c.ttl {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Has reports whether key holds a fresh value.
func (c *TTL[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Put stores value under key, restarting its ttl.
func (c *TTL[V]) Put(key string, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{value: value, at: now}
	c.order = append(c.order, stamp{key: key, at: now})
	c.compact(now)
}

// Len returns the number of entries currently held, fresh or not yet compacted.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTL[V]) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].at.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		// A newer Put for the same key leaves a stale stamp behind; skip it.
		if it, ok := c.items[oldest.key]; ok && it.at.Equal(oldest.at) {
			delete(c.items, oldest.key)
		}
	}
}
