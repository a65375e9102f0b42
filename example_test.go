package embedpq_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/embedpq"
	"github.com/hupe1980/embedpq/blobstore"
	"github.com/hupe1980/embedpq/testutil"
)

// Example demonstrates quantizing a matrix and round-tripping it through a
// blob store.
func Example() {
	ctx := context.Background()
	m := testutil.SequentialMatrix(100, 100)

	arr, err := embedpq.Quantize(ctx, m,
		embedpq.WithSubquantizers(10),
		embedpq.WithBits(4),
		embedpq.WithIterations(5),
		embedpq.WithSeed(42),
	)
	if err != nil {
		log.Fatal(err)
	}

	store := blobstore.NewMemoryStore()
	if err := embedpq.Save(ctx, store, "matrix.pq", arr, embedpq.WithCompression(embedpq.CompressionZstd)); err != nil {
		log.Fatal(err)
	}

	loaded, err := embedpq.Load(ctx, store, "matrix.pq")
	if err != nil {
		log.Fatal(err)
	}

	rows, dims := loaded.Shape()
	fmt.Println(rows, dims, arr.ChunkLen(0))
	// Output: 100 100 7448
}
