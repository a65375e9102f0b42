// Package testutil provides helpers for tests and benchmarks.
//
// It generates reproducible embedding matrices from a seeded RNG:
//
//	rng := testutil.NewRNG(seed)
//	m := rng.GaussianMatrix(1000, 64)
//	arr, err := storage.Quantize(storage.NewArray(m), trainer, cfg, rng.Rand())
package testutil
