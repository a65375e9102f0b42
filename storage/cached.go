package storage

import "github.com/hupe1980/embedpq/internal/cache"

// Cached keeps recently reconstructed rows of another Storage in memory.
//
// It is safe for concurrent use if the wrapped Storage is.
type Cached struct {
	inner Storage
	lru   *cache.LRU[int, []float32]
}

var _ Storage = (*Cached)(nil)

// NewCached wraps s with an LRU holding at most capacityBytes of row data.
func NewCached(s Storage, capacityBytes int64) *Cached {
	return &Cached{
		inner: s,
		lru: cache.NewLRU[int](capacityBytes, func(v []float32) int64 {
			return int64(4 * len(v))
		}),
	}
}

// Embedding implements Storage. The returned slice is owned by the caller.
func (c *Cached) Embedding(i int) []float32 {
	row, ok := c.lru.Get(i)
	if !ok {
		row = c.inner.Embedding(i)
		c.lru.Set(i, row)
	}
	out := make([]float32, len(row))
	copy(out, row)
	return out
}

// Shape implements Storage.
func (c *Cached) Shape() (int, int) { return c.inner.Shape() }

// Stats returns the cache hits and misses so far.
func (c *Cached) Stats() (hits, misses int64) { return c.lru.Stats() }
