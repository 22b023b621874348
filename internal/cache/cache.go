// Package cache holds previously fetched query results keyed by string.
// Entries are never mutated in place: readers get the stored value, writers
// replace it wholesale through Set, and Invalidate marks an entry stale so
// the next Get misses and forces a refetch while the stale value stays
// observable through Peek (a stale list is still worth rendering until the
// refetch lands).
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the keyed cache injected into the data services.
type Store interface {
	// Get returns the value for key if present and fresh.
	Get(key string) (any, bool)
	// Peek returns the value for key even if it has been invalidated.
	Peek(key string) (any, bool)
	// Set stores value under key, marking it fresh.
	Set(key string, value any)
	// Invalidate marks the entry for key stale. Missing keys are a no-op.
	Invalidate(key string)
	// Keys returns the keys of all entries, fresh and stale.
	Keys() []string
}

type entry struct {
	value any
	stale bool
}

// LRU is the default Store, backed by an expirable LRU so abandoned filter
// combinations age out on their own.
type LRU struct {
	mu    sync.Mutex
	items *expirable.LRU[string, *entry]
}

// New creates an LRU store holding up to size entries for at most ttl.
func New(size int, ttl time.Duration) *LRU {
	return &LRU{items: expirable.NewLRU[string, *entry](size, nil, ttl)}
}

func (c *LRU) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items.Get(key)
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

func (c *LRU) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *LRU) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Add(key, &entry{value: value})
}

func (c *LRU) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items.Get(key); ok {
		c.items.Add(key, &entry{value: e.value, stale: true})
	}
}

func (c *LRU) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Keys()
}

// InvalidatePrefix marks every entry whose key starts with prefix stale.
func InvalidatePrefix(s Store, prefix string) {
	for _, key := range s.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.Invalidate(key)
		}
	}
}
