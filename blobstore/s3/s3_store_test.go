package s3

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/embedpq/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_Live runs against the bucket named by S3_BUCKET.
func TestStore_Live(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("S3_BUCKET not set")
	}

	ctx := context.Background()
	store, err := New(ctx, bucket, WithPrefix(fmt.Sprintf("embedpq-it-%d/", time.Now().UnixNano())))
	require.NoError(t, err)

	// Larger than one part, so the upload goes multipart.
	data := make([]byte, DefaultPartSize+1<<20)
	rand.New(rand.NewSource(1)).Read(data)
	require.NoError(t, store.Put(ctx, "big.epq", data))
	t.Cleanup(func() { _ = store.Delete(ctx, "big.epq") })

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"big.epq"}, names)

	blob, err := store.Open(ctx, "big.epq")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(len(data)), blob.Size())

	mid := make([]byte, 100)
	_, err = blob.ReadAt(ctx, mid, 4096)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data[4096:4196], mid))

	_, err = store.Open(ctx, "absent.epq")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
