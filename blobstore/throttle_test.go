package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledStore(t *testing.T) {
	testStore(t, NewThrottledStore(NewMemoryStore(), 0))
}

func TestThrottledStore_SplitsLargeRequests(t *testing.T) {
	ctx := context.Background()
	// The first KiB drains the burst; the remaining 256 bytes wait.
	store := NewThrottledStore(NewMemoryStore(), 1<<10)

	data := make([]byte, 1<<10+256)
	start := time.Now()
	require.NoError(t, store.Put(ctx, "a", data))
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestThrottledStore_ReadHonorsContext(t *testing.T) {
	ctx := context.Background()
	store := NewThrottledStore(NewMemoryStore(), 8)

	require.NoError(t, store.Put(ctx, "a", []byte("12345678")))

	b, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	assert.Equal(t, int64(8), b.Size())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = b.ReadAt(canceled, make([]byte, 8), 0)
	assert.ErrorIs(t, err, context.Canceled)

	err = store.Put(canceled, "b", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
