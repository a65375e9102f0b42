// Package kmeans implements k-means clustering for quantizer training.
//
// Used by the product quantizer trainers to learn one codebook per
// sub-quantizer. All randomness comes from the caller's *rand.Rand so that a
// fixed seed reproduces the same codebooks.
package kmeans
