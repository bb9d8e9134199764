// Package ortho factors deviation-vector matrices as W = Q·R.
//
// The estimation loop re-orthonormalizes the deviation vectors every
// renormalization interval; Q becomes the new vector ensemble and the
// diagonal of R carries the local stretching factors whose logs accumulate
// into the Lyapunov spectrum.
package ortho

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateColumns indicates a column with vanishing norm: the deviation
// vectors have collapsed onto fewer than k independent directions. The fix
// is a shorter renormalization interval, never a silent correction here.
var ErrDegenerateColumns = errors.New("ortho: column with vanishing norm")

// degenTol flags residual column norms at roundoff scale after projection.
const degenTol = 1e-13

// Orthonormalizer factors D×k matrices (k ≤ D) using modified Gram-Schmidt
// with a second projection pass for stability on tall skinny input. Q and R
// buffers are owned by the Orthonormalizer and reused across calls.
type Orthonormalizer struct {
	d, k int
	q    *mat.Dense
	r    *mat.Dense
}

func New(d, k int) (*Orthonormalizer, error) {
	if k < 1 || k > d {
		return nil, fmt.Errorf("ortho: need 1 <= k <= d, got k=%d d=%d", k, d)
	}
	return &Orthonormalizer{
		d: d,
		k: k,
		q: mat.NewDense(d, k, nil),
		r: mat.NewDense(k, k, nil),
	}, nil
}

// Decompose factors w into Q (orthonormal columns) and R (upper triangular,
// non-negative diagonal). Columns are processed in order, so the diagonal
// keeps the growth-ordering the tangent dynamics establish in W. The
// returned matrices are reused on the next call; callers that keep them
// must copy.
func (o *Orthonormalizer) Decompose(w *mat.Dense) (q, r *mat.Dense, err error) {
	d, k := w.Dims()
	if d != o.d || k != o.k {
		return nil, nil, fmt.Errorf("ortho: matrix is %dx%d, orthonormalizer built for %dx%d", d, k, o.d, o.k)
	}

	o.q.Copy(w)
	o.r.Zero()

	for j := 0; j < k; j++ {
		colNorm := 0.0
		for row := 0; row < d; row++ {
			v := o.q.At(row, j)
			colNorm += v * v
		}
		colNorm = math.Sqrt(colNorm)

		// Project out the fixed directions twice; a single modified
		// Gram-Schmidt pass loses orthogonality for ill-conditioned W.
		for pass := 0; pass < 2; pass++ {
			for i := 0; i < j; i++ {
				dot := 0.0
				for row := 0; row < d; row++ {
					dot += o.q.At(row, i) * o.q.At(row, j)
				}
				o.r.Set(i, j, o.r.At(i, j)+dot)
				for row := 0; row < d; row++ {
					o.q.Set(row, j, o.q.At(row, j)-dot*o.q.At(row, i))
				}
			}
		}

		norm := 0.0
		for row := 0; row < d; row++ {
			v := o.q.At(row, j)
			norm += v * v
		}
		norm = math.Sqrt(norm)
		// A residual at roundoff scale relative to the input column means
		// the column was linearly dependent on its predecessors.
		if norm <= degenTol*colNorm || colNorm == 0 || math.IsNaN(norm) {
			return nil, nil, fmt.Errorf("%w: column %d", ErrDegenerateColumns, j)
		}

		o.r.Set(j, j, norm)
		inv := 1.0 / norm
		for row := 0; row < d; row++ {
			o.q.Set(row, j, o.q.At(row, j)*inv)
		}
	}

	return o.q, o.r, nil
}
