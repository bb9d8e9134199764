package physics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

// LinearMap is the map u' = A·u. Its Lyapunov exponents are the logs of the
// singular-value growth rates of Aⁿ; for diagonal or triangular A these are
// log|a_ii|, which makes the map the exact-answer fixture for the estimator.
type LinearMap struct {
	a *mat.Dense
	d int
}

func NewLinearMap(a *mat.Dense) (*LinearMap, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: linear map matrix is %dx%d, need square", dynamo.ErrDimensionMismatch, r, c)
	}
	return &LinearMap{a: mat.DenseCopyOf(a), d: r}, nil
}

// NewDiagonalMap builds a LinearMap with the given diagonal entries.
func NewDiagonalMap(diag ...float64) *LinearMap {
	d := len(diag)
	a := mat.NewDense(d, d, nil)
	for i, v := range diag {
		a.Set(i, i, v)
	}
	lm, _ := NewLinearMap(a)
	return lm
}

func (l *LinearMap) Kind() dynamo.Kind { return dynamo.Discrete }
func (l *LinearMap) Dimension() int    { return l.d }

func (l *LinearMap) Derive(s dynamo.State, _ float64) dynamo.State {
	out := make(dynamo.State, l.d)
	for i := 0; i < l.d; i++ {
		sum := 0.0
		for j := 0; j < l.d; j++ {
			sum += l.a.At(i, j) * s[j]
		}
		out[i] = sum
	}
	return out
}

func (l *LinearMap) Jacobian(_ dynamo.State, _ float64, dst *mat.Dense) {
	dst.Copy(l.a)
}

func (l *LinearMap) DefaultState() dynamo.State {
	s := make(dynamo.State, l.d)
	for i := range s {
		s[i] = 1.0
	}
	return s
}
