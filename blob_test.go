package embedpq

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/embedpq/blobstore"
	"github.com/hupe1980/embedpq/internal/compress"
)

func rawBlob(t *testing.T, store blobstore.Store, name string) []byte {
	t.Helper()
	ctx := context.Background()
	b, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	data, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	return data
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	arr := quantizeScenario(t)

	stores := map[string]blobstore.Store{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}

	for storeName, store := range stores {
		for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			t.Run(storeName+"/"+c.String(), func(t *testing.T) {
				name := "glove-" + c.String() + ".pq"
				metrics := &BasicMetricsCollector{}

				require.NoError(t, Save(ctx, store, name, arr, WithCompression(c), WithMetricsCollector(metrics)))

				env := rawBlob(t, store, name)
				assert.Equal(t, "EPQ1", string(env[:4]))
				assert.Equal(t, byte(c), env[4])
				assert.Equal(t, []byte{0, 0, 0}, env[5:8])

				got, err := Load(ctx, store, name, WithMetricsCollector(metrics))
				require.NoError(t, err)
				assertSameArray(t, arr, got)

				stats := metrics.GetStats()
				assert.Equal(t, arr.ChunkLen(0), stats.SaveRawBytes)
				assert.Equal(t, int64(len(env)), stats.SaveStoredBytes)
				assert.Equal(t, int64(len(env)), stats.LoadBytes)
			})
		}
	}
}

func TestSave_NoneStoresChunkVerbatim(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	arr := quantizeScenario(t)

	require.NoError(t, Save(ctx, store, "a.pq", arr))

	env := rawBlob(t, store, "a.pq")
	chunkLen := arr.ChunkLen(0)
	require.Equal(t, envelopeHeaderSize+compress.HeaderSize+int(chunkLen)+envelopeTrailer, len(env))

	block := env[envelopeHeaderSize:]
	assert.Equal(t, uint32(chunkLen), binary.LittleEndian.Uint32(block[0:4]))
	assert.Zero(t, binary.LittleEndian.Uint32(block[4:8]))
}

func TestSave_UnknownCompression(t *testing.T) {
	store := blobstore.NewMemoryStore()
	err := Save(context.Background(), store, "a.pq", quantizeScenario(t), WithCompression(Compression(7)))
	assert.ErrorIs(t, err, compress.ErrUnknownType)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoad_NotFound(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	_, err := Load(context.Background(), blobstore.NewMemoryStore(), "missing.pq", WithMetricsCollector(metrics))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Equal(t, int64(1), metrics.GetStats().LoadErrors)
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "a.pq", quantizeScenario(t)))

	env := rawBlob(t, store, "a.pq")
	// Flip a bit in the last code byte; the chunk still parses.
	env[len(env)-envelopeTrailer-1] ^= 0x01
	require.NoError(t, store.Put(ctx, "a.pq", env))

	_, err := Load(ctx, store, "a.pq")
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "a.pq", ce.Name)
	assert.NotEqual(t, ce.Expected, ce.Actual)
}

func TestLoad_InvalidEnvelope(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "good.pq", quantizeScenario(t), WithCompression(CompressionZstd)))
	good := rawBlob(t, store, "good.pq")

	mutate := func(f func(env []byte) []byte) []byte {
		env := append([]byte(nil), good...)
		return f(env)
	}

	tests := map[string][]byte{
		"short":       []byte("EPQ1"),
		"magic":       mutate(func(env []byte) []byte { env[0] = 'X'; return env }),
		"compression": mutate(func(env []byte) []byte { env[4] = 9; return env }),
		"reserved":    mutate(func(env []byte) []byte { env[6] = 1; return env }),
		"truncated":   mutate(func(env []byte) []byte { return append(env[:len(env)-12], env[len(env)-4:]...) }),
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, name, env))
			_, err := Load(ctx, store, name)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
}
