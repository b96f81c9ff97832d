// Package memory is the in-process TTL cache used when no Redis is configured.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hotel_finder/internal/adapters/observability"
)

// sweepEvery bounds how often Set scans for expired entries.
const sweepEvery = 256

type entry struct {
	b   []byte
	exp time.Time
}

// Cache stores JSON-encoded values so callers never share mutable state with
// the cache. Readers take a shared lock and never block each other.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	sets  int
	now   func() time.Time
}

func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests control expiry.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{items: make(map[string]entry), now: now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.exp) {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	if err := json.Unmarshal(e.b, dst); err != nil {
		observability.ObserveCache("memory", "error")
		return false, err
	}
	observability.ObserveCache("memory", "hit")
	return true, nil
}

// Set overwrites any previous value; concurrent writers of the same key are
// last-write-wins.
func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	if ttlSec <= 0 {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{b: b, exp: now.Add(time.Duration(ttlSec) * time.Second)}
	c.sets++
	if c.sets%sweepEvery == 0 {
		for k, e := range c.items {
			if !now.Before(e.exp) {
				delete(c.items, k)
			}
		}
	}
	observability.ObserveCache("memory", "set")
	return nil
}

// Len counts stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
