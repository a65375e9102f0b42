package cache

import (
	"sync"
	"sync/atomic"
)

// LRU evicts the least recently used entries once the summed size of its
// values exceeds a byte budget. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu     sync.Mutex
	budget int64
	used   int64
	sizeOf func(V) int64
	nodes  map[K]*node[K, V]
	// root is the sentinel of a circular list; root.next is the most
	// recently used node.
	root node[K, V]

	hits   atomic.Int64
	misses atomic.Int64
}

type node[K comparable, V any] struct {
	prev, next *node[K, V]
	key        K
	val        V
	size       int64
}

// NewLRU returns an empty cache with the given byte budget.
func NewLRU[K comparable, V any](budget int64, sizeOf func(V) int64) *LRU[K, V] {
	c := &LRU[K, V]{
		budget: budget,
		sizeOf: sizeOf,
		nodes:  make(map[K]*node[K, V]),
	}
	c.root.prev, c.root.next = &c.root, &c.root
	return c
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	n, ok := c.nodes[key]
	if ok {
		c.unlink(n)
		c.pushFront(n)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return n.val, true
}

// Set stores val under key. Values larger than the whole budget are not
// cached, and drop any older value for key.
func (c *LRU[K, V]) Set(key K, val V) {
	size := c.sizeOf(val)

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.nodes[key]; ok {
		c.remove(old)
	}
	if size > c.budget {
		return
	}
	n := &node[K, V]{key: key, val: val, size: size}
	c.nodes[key] = n
	c.pushFront(n)
	c.used += size

	for c.used > c.budget {
		c.remove(c.root.prev)
	}
}

// Invalidate drops every entry whose key matches.
func (c *LRU[K, V]) Invalidate(match func(K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, n := range c.nodes {
		if match(k) {
			c.remove(n)
		}
	}
}

// Stats reports lookups served from and missed by the cache.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size is the summed size of all cached values.
func (c *LRU[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev, n.next = &c.root, c.root.next
	c.root.next.prev = n
	c.root.next = n
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *LRU[K, V]) remove(n *node[K, V]) {
	c.unlink(n)
	delete(c.nodes, n.key)
	c.used -= n.size
}
