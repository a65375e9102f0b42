// Package mmap maps chunk files read-only into memory.
//
// ReadFile decodes straight from the mapped bytes:
//
//	m, err := mmap.Open("embeddings.pq")
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	arr, err := storage.ReadQuantizedArray(m.NewReader())
//
// Decoded arrays copy what they need and outlive the mapping. On Unix the
// view comes from mmap(2) and hints go to madvise(2); on Windows hints are
// ignored.
package mmap
