package kmeans

import (
	"errors"
	"math"
	"math/rand"

	"github.com/hupe1980/embedpq/internal/math32"
)

var (
	// ErrNoVectors is returned when there is nothing to cluster.
	ErrNoVectors = errors.New("kmeans: no vectors provided")
	// ErrInvalidArgument is returned for non-positive dim, k, iterations or attempts.
	ErrInvalidArgument = errors.New("kmeans: invalid argument")
)

// TrainKMeans trains k centroids from the given vectors using Lloyd's algorithm.
//
// vectors holds n row-major vectors of length dim. Initial centroids are k
// distinct rows chosen with rng; if there are fewer than k rows, rows are
// reused cyclically. It returns the flattened centroids (k * dim) and the sum
// of squared distances of every vector to its nearest centroid.
func TrainKMeans(vectors []float32, dim, k, maxIter int, rng *rand.Rand) ([]float32, float64, error) {
	if dim <= 0 || k <= 0 || maxIter <= 0 {
		return nil, 0, ErrInvalidArgument
	}
	n := len(vectors) / dim
	if n == 0 {
		return nil, 0, ErrNoVectors
	}

	centroids := initCentroids(vectors, n, dim, k, rng)

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for range maxIter {
		if !assign(vectors, centroids, assignments, dim) {
			break
		}
		update(vectors, centroids, assignments, counts, sums, dim, rng)
	}

	return centroids, Loss(vectors, centroids, dim), nil
}

// TrainBest runs TrainKMeans attempts times and keeps the centroids with the
// lowest loss.
func TrainBest(vectors []float32, dim, k, maxIter, attempts int, rng *rand.Rand) ([]float32, float64, error) {
	if attempts <= 0 {
		return nil, 0, ErrInvalidArgument
	}

	var (
		best     []float32
		bestLoss = math.Inf(1)
	)
	for range attempts {
		centroids, loss, err := TrainKMeans(vectors, dim, k, maxIter, rng)
		if err != nil {
			return nil, 0, err
		}
		if best == nil || loss < bestLoss {
			best, bestLoss = centroids, loss
		}
	}
	return best, bestLoss, nil
}

// AssignPartition finds the closest centroid for a vector.
// Ties resolve to the lowest centroid index.
func AssignPartition(vec []float32, centroids []float32, dim int) int {
	k := len(centroids) / dim
	best := 0
	minDist := float32(math.MaxFloat32)
	for j := range k {
		d := math32.SquaredL2(vec, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}
	return best
}

// Loss returns the sum of squared distances of every vector to its nearest centroid.
func Loss(vectors, centroids []float32, dim int) float64 {
	n := len(vectors) / dim
	var loss float64
	for i := range n {
		vec := vectors[i*dim : (i+1)*dim]
		j := AssignPartition(vec, centroids, dim)
		loss += float64(math32.SquaredL2(vec, centroids[j*dim:(j+1)*dim]))
	}
	return loss
}

func initCentroids(vectors []float32, n, dim, k int, rng *rand.Rand) []float32 {
	centroids := make([]float32, k*dim)
	if n < k {
		for i := range k {
			r := i % n
			copy(centroids[i*dim:(i+1)*dim], vectors[r*dim:(r+1)*dim])
		}
		return centroids
	}

	perm := rng.Perm(n)
	for i := range k {
		r := perm[i]
		copy(centroids[i*dim:(i+1)*dim], vectors[r*dim:(r+1)*dim])
	}
	return centroids
}

// assign updates assignments and reports whether any changed.
func assign(vectors, centroids []float32, assignments []int, dim int) bool {
	changed := false
	for i := range assignments {
		nearest := AssignPartition(vectors[i*dim:(i+1)*dim], centroids, dim)
		if assignments[i] != nearest {
			assignments[i] = nearest
			changed = true
		}
	}
	return changed
}

func update(vectors, centroids []float32, assignments, counts []int, sums []float64, dim int, rng *rand.Rand) {
	clear(counts)
	clear(sums)

	for i, cluster := range assignments {
		vec := vectors[i*dim : (i+1)*dim]
		acc := sums[cluster*dim : (cluster+1)*dim]
		for d, v := range vec {
			acc[d] += float64(v)
		}
		counts[cluster]++
	}

	n := len(assignments)
	for j, count := range counts {
		dst := centroids[j*dim : (j+1)*dim]
		if count == 0 {
			// Re-seed an empty cluster with a random vector.
			r := rng.Intn(n)
			copy(dst, vectors[r*dim:(r+1)*dim])
			continue
		}
		scale := 1 / float64(count)
		for d := range dst {
			dst[d] = float32(sums[j*dim+d] * scale)
		}
	}
}
