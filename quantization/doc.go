// Package quantization implements product quantization of embedding matrices.
//
// A [PQ] splits every d-dimensional vector into M sub-vectors of length d/M and
// replaces each sub-vector by the index of its nearest centroid in that
// sub-quantizer's codebook. With k = 2^b centroids per codebook a vector is
// stored as M bytes.
//
// An optional d×d projection is applied to every vector before splitting.
// Reconstruction does not undo it: reconstructed vectors live in the
// projected space.
//
// Training is pluggable through [Trainer]:
//
//	pq, err := quantization.PQTrainer{}.Train(M, bits, iterations, attempts, m, rng)
//
// [PQTrainer] learns the codebooks with k-means and no projection.
// [OPQTrainer] additionally learns an orthogonal rotation (optimized product
// quantization) by alternating codebook training and an orthogonal Procrustes
// update.
package quantization
