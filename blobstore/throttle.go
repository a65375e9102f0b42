package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledStore limits the byte throughput of another Store.
//
// Reads and writes wait for the limiter before touching the underlying
// store. Open, Delete and List are not limited.
type ThrottledStore struct {
	Store
	limiter *rate.Limiter
}

var _ Store = (*ThrottledStore)(nil)

// NewThrottledStore wraps s so that at most bytesPerSec bytes per second are
// read or written. A non-positive limit disables throttling.
func NewThrottledStore(s Store, bytesPerSec int) *ThrottledStore {
	limit := rate.Inf
	burst := 0
	if bytesPerSec > 0 {
		limit = rate.Limit(bytesPerSec)
		burst = bytesPerSec
	}
	return &ThrottledStore{
		Store:   s,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Open opens a blob whose reads are throttled.
func (t *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := t.Store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{Blob: b, store: t}, nil
}

// Put waits for len(data) bytes of budget, then writes.
func (t *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := t.wait(ctx, len(data)); err != nil {
		return err
	}
	return t.Store.Put(ctx, name, data)
}

// wait blocks until n bytes are allowed. Requests above the burst size are
// split.
func (t *ThrottledStore) wait(ctx context.Context, n int) error {
	if t.limiter.Limit() == rate.Inf {
		return ctx.Err()
	}
	burst := t.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := t.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

type throttledBlob struct {
	Blob
	store *ThrottledStore
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.store.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.Blob.ReadAt(ctx, p, off)
}
