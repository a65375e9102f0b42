package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/embedpq/internal/conv"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// Zstd trades speed for a better ratio.
	Zstd Type = 2
)

// String returns the name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool { return t <= Zstd }

// HeaderSize is the size of the block header.
const HeaderSize = 8

var (
	// ErrCorrupt is returned for blocks that cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt block")
	// ErrUnknownType is returned for an unknown algorithm.
	ErrUnknownType = errors.New("compress: unknown compression type")
)

// Largest expansion a single input byte can yield: LZ4 sequences extend a
// match by at most 255 bytes per length byte; a 4-byte zstd RLE block can
// describe a full 128 KiB block.
const (
	maxLZ4Ratio  = 255
	maxZstdRatio = 128 << 10 / 4
)

var zstdEncoderPool sync.Pool

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

// newZstdDecoder returns a decoder that refuses frames decoding to more than
// limit bytes.
func newZstdDecoder(limit uint32) (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)),
	)
}

// Compress encodes data as a block.
func Compress(data []byte, t Type) ([]byte, error) {
	size, err := conv.Narrow[uint32](len(data))
	if err != nil {
		return nil, fmt.Errorf("compress: block too large: %w", err)
	}

	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	var compressed []byte
	if len(data) > 0 {
		switch t {
		case LZ4:
			compressed, err = compressLZ4(data)
		case Zstd:
			enc := getZstdEncoder()
			compressed = enc.EncodeAll(data, nil)
			zstdEncoderPool.Put(enc)
		}
		if err != nil {
			return nil, err
		}
	}

	// Store as is when compression does not save at least 10%.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, HeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], size)
		copy(out[HeaderSize:], data)
		return out, nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], size)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[HeaderSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible.
	return compressed[:n], nil
}

// Decompress decodes a block produced by Compress with the same type.
// The whole input must be consumed by the block.
func Decompress(block []byte, t Type) ([]byte, error) {
	if len(block) < HeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	payload := block[HeaderSize:]

	if compressedSize == 0 {
		if uint64(len(payload)) != uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: stored block has %d bytes, header says %d", ErrCorrupt, len(payload), uncompressedSize)
		}
		return payload, nil
	}
	if uint64(len(payload)) != uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed block has %d bytes, header says %d", ErrCorrupt, len(payload), compressedSize)
	}

	if uncompressedSize == 0 {
		return nil, fmt.Errorf("%w: compressed block of empty data", ErrCorrupt)
	}

	switch t {
	case LZ4:
		if uint64(uncompressedSize) > uint64(len(payload))*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrCorrupt, len(payload), uncompressedSize)
		}
		result := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case Zstd:
		if uint64(uncompressedSize) > uint64(len(payload))*maxZstdRatio {
			return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrCorrupt, len(payload), uncompressedSize)
		}
		dec, err := newZstdDecoder(uncompressedSize)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		decoded, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	case None:
		return nil, fmt.Errorf("%w: compressed block without compression type", ErrCorrupt)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
