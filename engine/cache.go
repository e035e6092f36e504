package engine

import (
	"sync"

	"github.com/0xalexb/hjarta-layers/value"
)

type cacheKey struct {
	ref  Ref
	opts Resolution
}

// cache memoizes Get results between mutations. It is locked so that
// concurrent readers can fill it.
type cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]value.Value
}

func newCache() *cache {
	return &cache{entries: map[cacheKey]value.Value{}}
}

func (c *cache) load(key cacheKey) (value.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	if !ok {
		return value.None(), false
	}

	return v.Clone(), true
}

func (c *cache) store(key cacheKey, v value.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = v.Clone()
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}
