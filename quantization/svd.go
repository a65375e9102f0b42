package quantization

import (
	"math"

	"github.com/hupe1980/embedpq/matrix"
)

const (
	jacobiTol     = 1e-10
	jacobiMaxIter = 100
	// singularEps marks columns of U that carry no signal.
	singularEps = 1e-9
)

// procrustes returns the orthogonal matrix R maximizing Tr(Rᵀ M), which also
// minimizes ||A R - B|| for M = Aᵀ B. The solution is R = U Vᵀ with
// M = U Σ Vᵀ; reflections are removed so that det(R) = 1.
func procrustes(mat *matrix.Dense) *matrix.Dense {
	n := mat.Rows()
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		for j, v := range mat.Row(i) {
			a[i][j] = float64(v)
		}
	}

	u, sigma, v := svd(a)
	completeBasis(u, sigma)

	r := mulTransposed(u, v)
	if determinant(r) < 0 {
		// Flip the direction that contributes least.
		minIdx := 0
		for i := 1; i < n; i++ {
			if sigma[i] < sigma[minIdx] {
				minIdx = i
			}
		}
		for i := range n {
			u[i][minIdx] = -u[i][minIdx]
		}
		r = mulTransposed(u, v)
	}

	out := matrix.Zeros(n, n)
	for i := range n {
		row := out.Row(i)
		for j := range n {
			row[j] = float32(r[i][j])
		}
	}
	return out
}

// svd computes A = U Σ Vᵀ with one-sided Jacobi rotations. A is overwritten
// and returned as U. Columns of U whose singular value is zero are left
// unnormalized.
func svd(a [][]float64) ([][]float64, []float64, [][]float64) {
	m := len(a)
	if m == 0 {
		return nil, nil, nil
	}
	n := len(a[0])

	v := make([][]float64, n)
	for i := range v {
		v[i] = make([]float64, n)
		v[i][i] = 1
	}

	u := a
	for range jacobiMaxIter {
		if !jacobiSweep(u, v, m, n) {
			break
		}
	}

	sigma := make([]float64, n)
	for j := range n {
		var sum float64
		for i := range m {
			sum += u[i][j] * u[i][j]
		}
		sigma[j] = math.Sqrt(sum)
		if sigma[j] > singularEps {
			inv := 1 / sigma[j]
			for i := range m {
				u[i][j] *= inv
			}
		}
	}
	return u, sigma, v
}

func jacobiSweep(u, v [][]float64, m, n int) bool {
	changed := false
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			var alpha, beta, gamma float64
			for k := range m {
				alpha += u[k][i] * u[k][i]
				beta += u[k][j] * u[k][j]
				gamma += u[k][i] * u[k][j]
			}
			if alpha < 1e-24 || beta < 1e-24 {
				continue
			}
			if math.Abs(gamma) <= jacobiTol*math.Sqrt(alpha*beta) {
				continue
			}
			changed = true
			rotate(u, v, m, n, i, j, alpha, beta, gamma)
		}
	}
	return changed
}

func rotate(u, v [][]float64, m, n, i, j int, alpha, beta, gamma float64) {
	zeta := (beta - alpha) / (2 * gamma)
	var t float64
	if zeta > 0 {
		t = 1 / (zeta + math.Sqrt(1+zeta*zeta))
	} else {
		t = -1 / (-zeta + math.Sqrt(1+zeta*zeta))
	}
	c := 1 / math.Sqrt(1+t*t)
	s := c * t

	for k := range m {
		t1, t2 := u[k][i], u[k][j]
		u[k][i] = c*t1 - s*t2
		u[k][j] = s*t1 + c*t2
	}
	for k := range n {
		t1, t2 := v[k][i], v[k][j]
		v[k][i] = c*t1 - s*t2
		v[k][j] = s*t1 + c*t2
	}
}

// completeBasis replaces the columns of a square U that belong to zero
// singular values by unit vectors orthogonal to all other columns.
func completeBasis(u [][]float64, sigma []float64) {
	n := len(u)
	var basis []int
	var missing []int
	for j := range n {
		if sigma[j] > singularEps {
			basis = append(basis, j)
		} else {
			missing = append(missing, j)
		}
	}

	col := make([]float64, n)
	for _, j := range missing {
		best, bestNorm := -1, 0.0
		for e := range n {
			residual(u, basis, e, col)
			if norm := vecNorm(col); norm > bestNorm {
				best, bestNorm = e, norm
			}
		}
		residual(u, basis, best, col)
		for i := range n {
			u[i][j] = col[i] / bestNorm
		}
		basis = append(basis, j)
	}
}

// residual writes the standard basis vector e minus its projection onto the
// given columns of u.
func residual(u [][]float64, basis []int, e int, dst []float64) {
	clear(dst)
	dst[e] = 1
	for _, b := range basis {
		dot := u[e][b]
		for i := range dst {
			dst[i] -= dot * u[i][b]
		}
	}
}

func vecNorm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// mulTransposed returns U Vᵀ.
func mulTransposed(u, v [][]float64) [][]float64 {
	n := len(u)
	r := make([][]float64, n)
	for i := range r {
		r[i] = make([]float64, n)
		for j := range n {
			var sum float64
			for k := range n {
				sum += u[i][k] * v[j][k]
			}
			r[i][j] = sum
		}
	}
	return r
}

// determinant computes det(a) by Gaussian elimination with partial pivoting.
func determinant(a [][]float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	tmp := make([][]float64, n)
	for i := range tmp {
		tmp[i] = append([]float64(nil), a[i]...)
	}

	det := 1.0
	for i := range n {
		pivot := i
		for j := i + 1; j < n; j++ {
			if math.Abs(tmp[j][i]) > math.Abs(tmp[pivot][i]) {
				pivot = j
			}
		}
		if pivot != i {
			tmp[i], tmp[pivot] = tmp[pivot], tmp[i]
			det = -det
		}
		if tmp[i][i] == 0 {
			return 0
		}
		det *= tmp[i][i]
		for j := i + 1; j < n; j++ {
			f := tmp[j][i] / tmp[i][i]
			for k := i + 1; k < n; k++ {
				tmp[j][k] -= f * tmp[i][k]
			}
		}
	}
	return det
}
