package embedpq

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/hupe1980/embedpq/blobstore"
	"github.com/hupe1980/embedpq/internal/compress"
	"github.com/hupe1980/embedpq/internal/fs"
	"github.com/hupe1980/embedpq/storage"
)

// Blob envelope:
//
//	magic "EPQ1" | compression u8 | 3 reserved zero bytes |
//	compress block | crc32 (IEEE) u32 of the uncompressed chunk
const (
	envelopeMagic      = "EPQ1"
	envelopeHeaderSize = 8
	envelopeTrailer    = 4
)

// Save serializes arr and stores it under name.
func Save(ctx context.Context, store blobstore.Store, name string, arr *storage.QuantizedArray, optFns ...Option) error {
	o := applyOptions(optFns)

	start := time.Now()
	raw, stored, err := save(ctx, o, store, name, arr)

	o.metricsCollector.RecordSave(raw, stored, time.Since(start), err)
	o.logger.LogWrite(ctx, name, stored, err)
	return err
}

func save(ctx context.Context, o options, store blobstore.Store, name string, arr *storage.QuantizedArray) (int64, int64, error) {
	var buf fs.Buffer
	if err := arr.WriteChunk(&buf); err != nil {
		return 0, 0, err
	}

	env, err := seal(buf.Bytes(), o.compression)
	if err != nil {
		return 0, 0, err
	}
	if err := store.Put(ctx, name, env); err != nil {
		return 0, 0, err
	}
	return int64(buf.Len()), int64(len(env)), nil
}

// Load reads a chunk saved with Save.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*storage.QuantizedArray, error) {
	o := applyOptions(optFns)

	start := time.Now()
	arr, stored, err := load(ctx, store, name)
	err = translateError(err)

	o.metricsCollector.RecordLoad(stored, time.Since(start), err)
	rows := 0
	if arr != nil {
		rows, _ = arr.Shape()
	}
	o.logger.LogRead(ctx, name, rows, err)

	if err != nil {
		return nil, err
	}
	return arr, nil
}

func load(ctx context.Context, store blobstore.Store, name string) (*storage.QuantizedArray, int64, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = b.Close() }()

	env, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, 0, err
	}

	raw, err := unseal(name, env)
	if err != nil {
		return nil, 0, err
	}

	arr, err := storage.ReadQuantizedArray(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, err
	}
	return arr, int64(len(env)), nil
}

func seal(raw []byte, c Compression) ([]byte, error) {
	block, err := compress.Compress(raw, c)
	if err != nil {
		return nil, err
	}

	env := make([]byte, 0, envelopeHeaderSize+len(block)+envelopeTrailer)
	env = append(env, envelopeMagic...)
	env = append(env, byte(c), 0, 0, 0)
	env = append(env, block...)
	env = binary.LittleEndian.AppendUint32(env, crc32.ChecksumIEEE(raw))
	return env, nil
}

func unseal(name string, env []byte) ([]byte, error) {
	if len(env) < envelopeHeaderSize+compress.HeaderSize+envelopeTrailer {
		return nil, fmt.Errorf("%w: %s: %d bytes is too short", ErrInvalidEnvelope, name, len(env))
	}
	if string(env[:4]) != envelopeMagic {
		return nil, fmt.Errorf("%w: %s: bad magic %q", ErrInvalidEnvelope, name, env[:4])
	}

	c := Compression(env[4])
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s: unknown compression %d", ErrInvalidEnvelope, name, env[4])
	}
	if env[5] != 0 || env[6] != 0 || env[7] != 0 {
		return nil, fmt.Errorf("%w: %s: reserved bytes set", ErrInvalidEnvelope, name)
	}

	block := env[envelopeHeaderSize : len(env)-envelopeTrailer]
	raw, err := compress.Decompress(block, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEnvelope, name, err)
	}

	want := binary.LittleEndian.Uint32(env[len(env)-envelopeTrailer:])
	if got := crc32.ChecksumIEEE(raw); got != want {
		return nil, &ChecksumError{Name: name, Expected: want, Actual: got}
	}
	return raw, nil
}
