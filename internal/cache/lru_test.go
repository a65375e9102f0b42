package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byteLen(b []byte) int64 { return int64(len(b)) }

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU[int](100, byteLen)

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Set(1, []byte("hello"))
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EdgeCases(t *testing.T) {
	c := NewLRU[string](50, byteLen)

	// Item larger than capacity
	c.Set("k", make([]byte, 60))
	_, ok := c.Get("k")
	assert.False(t, ok, "Item > capacity should not be cached")

	// Update existing item
	c.Set("k", make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())

	c.Set("k", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())

	c.Set("k", make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())

	// Growing past capacity drops the entry
	c.Set("k", make([]byte, 51))
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int](30, byteLen)

	c.Set(1, make([]byte, 10))
	c.Set(2, make([]byte, 10))
	c.Set(3, make([]byte, 10))

	// Touch 1 so that 2 becomes the least recently used.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Set(4, make([]byte, 10))

	_, ok = c.Get(2)
	assert.False(t, ok)
	for _, k := range []int{1, 3, 4} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %d", k)
	}
	assert.Equal(t, int64(30), c.Size())
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRU[int](100, byteLen)
	for i := range 10 {
		c.Set(i, []byte{byte(i)})
	}

	c.Invalidate(func(k int) bool { return k%2 == 0 })
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, int64(5), c.Size())

	_, ok := c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](1024, func(v []float32) int64 { return int64(4 * len(v)) })

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := (g*200 + i) % 64
				if _, ok := c.Get(k); !ok {
					c.Set(k, make([]float32, 4))
				}
			}
		}()
	}
	wg.Wait()

	hits, misses := c.Stats()
	assert.Equal(t, int64(8*200), hits+misses)
	assert.LessOrEqual(t, c.Size(), int64(1024))
}
