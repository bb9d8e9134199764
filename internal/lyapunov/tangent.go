package lyapunov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

// TangentStepper advances a system state together with k deviation vectors
// evolving under the linearized dynamics. Discrete systems apply one map
// iteration and multiply the deviation matrix by the Jacobian; continuous
// systems integrate the augmented D·(1+k)-dimensional ODE so the Jacobian
// is sampled at the instantaneous trajectory state, not only at step
// boundaries.
type TangentStepper struct {
	sys   dynamo.System
	jac   dynamo.JacobianStrategy
	integ dynamo.Integrator
	d, k  int

	jbuf   *mat.Dense   // Jacobian workspace, shared with augSys
	wbuf   *mat.Dense   // J·W product workspace (discrete)
	aug    dynamo.State // flattened (state, W) buffer (continuous)
	augSys *augmented
}

func NewTangentStepper(sys dynamo.System, jac dynamo.JacobianStrategy, integ dynamo.Integrator, k int) (*TangentStepper, error) {
	d := sys.Dimension()
	if k < 1 || k > d {
		return nil, fmt.Errorf("%w: k=%d outside 1..%d", dynamo.ErrBadParameter, k, d)
	}
	if sys.Kind() == dynamo.Continuous && integ == nil {
		return nil, fmt.Errorf("%w: continuous system needs an integrator", dynamo.ErrBadParameter)
	}

	ts := &TangentStepper{
		sys:   sys,
		jac:   jac,
		integ: integ,
		d:     d,
		k:     k,
		jbuf:  mat.NewDense(d, d, nil),
		wbuf:  mat.NewDense(d, k, nil),
	}
	if sys.Kind() == dynamo.Continuous {
		ts.aug = make(dynamo.State, d*(1+k))
		ts.augSys = &augmented{sys: sys, jac: jac, d: d, k: k, jbuf: ts.jbuf}
	}
	return ts, nil
}

// Step advances (x, w) by dt for flows or one iteration for maps (dt
// ignored). w is overwritten with the propagated deviation vectors.
func (ts *TangentStepper) Step(x dynamo.State, w *mat.Dense, t, dt float64) (dynamo.State, error) {
	if ts.sys.Kind() == dynamo.Discrete {
		return ts.stepMap(x, w, t)
	}
	return ts.stepFlow(x, w, t, dt)
}

func (ts *TangentStepper) stepMap(x dynamo.State, w *mat.Dense, t float64) (dynamo.State, error) {
	// Jacobian at the pre-image: W' = J(x)·W, then x' = f(x).
	ts.jac.Jacobian(x, t, ts.jbuf)
	next := ts.sys.Derive(x, t)
	if !next.IsValid() {
		return nil, dynamo.ErrDiverged
	}
	ts.wbuf.Mul(ts.jbuf, w)
	w.Copy(ts.wbuf)
	return next, nil
}

func (ts *TangentStepper) stepFlow(x dynamo.State, w *mat.Dense, t, dt float64) (dynamo.State, error) {
	flatten(x, w, ts.aug, ts.d, ts.k)
	out := ts.integ.Step(ts.augSys, ts.aug, t, dt)
	if !out.IsValid() {
		return nil, dynamo.ErrDiverged
	}
	next := make(dynamo.State, ts.d)
	unflatten(out, next, w, ts.d, ts.k)
	return next, nil
}

// augmented presents (state, W) as one flat continuous system of dimension
// d·(1+k): the leading d entries follow f, each subsequent block of d
// entries is one deviation vector following w' = J(x)·w.
type augmented struct {
	sys  dynamo.System
	jac  dynamo.JacobianStrategy
	d, k int
	jbuf *mat.Dense
}

func (a *augmented) Kind() dynamo.Kind { return dynamo.Continuous }
func (a *augmented) Dimension() int    { return a.d * (1 + a.k) }

func (a *augmented) Derive(z dynamo.State, t float64) dynamo.State {
	x := dynamo.State(z[:a.d])
	out := make(dynamo.State, len(z))
	copy(out[:a.d], a.sys.Derive(x, t))

	a.jac.Jacobian(x, t, a.jbuf)
	for col := 0; col < a.k; col++ {
		wj := z[a.d*(1+col) : a.d*(2+col)]
		oj := out[a.d*(1+col) : a.d*(2+col)]
		for i := 0; i < a.d; i++ {
			sum := 0.0
			for j := 0; j < a.d; j++ {
				sum += a.jbuf.At(i, j) * wj[j]
			}
			oj[i] = sum
		}
	}
	return out
}

func flatten(x dynamo.State, w *mat.Dense, dst dynamo.State, d, k int) {
	copy(dst[:d], x)
	for col := 0; col < k; col++ {
		for i := 0; i < d; i++ {
			dst[d*(1+col)+i] = w.At(i, col)
		}
	}
}

func unflatten(src dynamo.State, x dynamo.State, w *mat.Dense, d, k int) {
	copy(x, src[:d])
	for col := 0; col < k; col++ {
		for i := 0; i < d; i++ {
			w.Set(i, col, src[d*(1+col)+i])
		}
	}
}
