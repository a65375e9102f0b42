// Package embedpq stores embedding matrices in product-quantized form.
//
// An embedding matrix holds one dense float32 vector per vocabulary item.
// embedpq trains a product quantizer on the matrix, replaces every row by a
// short code and serializes the result as a single self-describing chunk.
// Approximate rows are reconstructed from the codes on demand.
//
// # Quick Start
//
//	ctx := context.Background()
//	arr, _ := embedpq.Quantize(ctx, m,
//	    embedpq.WithSubquantizers(10),
//	    embedpq.WithBits(8),
//	    embedpq.WithNormalize(true),
//	)
//	vec := arr.Embedding(42) // approximate row 42
//
// # Files
//
//	_ = embedpq.WriteFile(ctx, "glove.pq", arr)  // atomic temp + rename
//	arr, _ = embedpq.ReadFile(ctx, "glove.pq")   // memory-mapped read
//
// # Blob Stores
//
// Save and Load wrap the chunk in a checksummed envelope with optional
// LZ4 or Zstandard compression:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("embeddings/"))
//	_ = embedpq.Save(ctx, s3Store, "glove.pq", arr, embedpq.WithCompression(embedpq.CompressionZstd))
//	arr, _ = embedpq.Load(ctx, s3Store, "glove.pq")
//
// # Quantizers
//
// The default trainer runs k-means independently per sub-quantizer
// (quantization.PQTrainer). quantization.OPQTrainer additionally learns an
// orthogonal rotation that is stored in the chunk as its projection:
//
//	arr, _ := embedpq.Quantize(ctx, m, embedpq.WithTrainer(quantization.OPQTrainer{}))
//
// Reconstructed vectors of a rotated quantizer live in the rotated space.
//
// # Key Features
//
//   - Byte-exact, 4-byte aligned chunk layout
//   - Optional norm storage for normalized quantization
//   - Deterministic training for a fixed seed
//   - Local, in-memory, S3 and MinIO blob stores
//   - Byte-bounded LRU cache of reconstructed rows (storage.Cached)
package embedpq
