package matcher

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/okian/mercato/pkg/metrics"
)

// Cache memoizes resolutions by raw counterparty name.
type Cache interface {
	// Lookup returns a cached result without computing anything.
	Lookup(ctx context.Context, key string) (Result, bool)

	// LoadOrCompute returns the cached result for key, computing and storing
	// it with fn on a miss. Concurrent misses for one key run fn once.
	// hit reports whether the value was already cached.
	LoadOrCompute(ctx context.Context, key string, fn func() Result) (res Result, hit bool)

	Size() int64
}

// memoCache is an unbounded, write-once-per-key map. Entries live as long as
// the matcher that owns it; a new registry version gets a new cache.
type memoCache struct {
	mu      sync.RWMutex
	entries map[string]Result
	size    atomic.Int64
	flight  singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache creates an empty memo cache.
func NewCache() Cache {
	return &memoCache{entries: make(map[string]Result)}
}

func (c *memoCache) Lookup(_ context.Context, key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *memoCache) LoadOrCompute(ctx context.Context, key string, fn func() Result) (Result, bool) {
	if r, ok := c.Lookup(ctx, key); ok {
		c.hits.Add(1)
		metrics.RecordMatcherCacheHit()
		return r, true
	}

	v, _, _ := c.flight.Do(key, func() (interface{}, error) {
		// Another flight may have finished between Lookup and Do.
		if r, ok := c.Lookup(ctx, key); ok {
			return r, nil
		}
		c.misses.Add(1)
		metrics.RecordMatcherCacheMiss()
		r := fn()

		c.mu.Lock()
		if _, exists := c.entries[key]; !exists {
			c.entries[key] = r
			c.size.Add(1)
		}
		c.mu.Unlock()
		metrics.UpdateMatcherCacheSize(int(c.size.Load()))
		return r, nil
	})
	return v.(Result), false
}

// Size returns the number of memoized names.
func (c *memoCache) Size() int64 {
	return c.size.Load()
}

// counters exposes hit/miss totals to Matcher.Stats.
func (c *memoCache) counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
