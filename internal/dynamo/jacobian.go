package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobianStrategy produces the D×D Jacobian of a system's Derive at a
// state, writing it into dst. The tangent-stepping code is agnostic to
// which strategy produced the matrix.
type JacobianStrategy interface {
	Jacobian(x State, t float64, dst *mat.Dense)
}

// Differentiable is implemented by systems that supply an analytic Jacobian.
type Differentiable interface {
	System
	Jacobian(x State, t float64, dst *mat.Dense)
}

// Analytic delegates to the system's own Jacobian implementation.
type Analytic struct {
	Sys Differentiable
}

func (a Analytic) Jacobian(x State, t float64, dst *mat.Dense) {
	a.Sys.Jacobian(x, t, dst)
}

// fdScale is cbrt(machine epsilon), the usual central-difference step scale.
var fdScale = math.Cbrt(2.220446049250313e-16)

// FiniteDifference approximates the Jacobian of Sys.Derive with central
// differences, column by column. Used when a system supplies no analytic
// Jacobian.
type FiniteDifference struct {
	Sys System
}

func (fd FiniteDifference) Jacobian(x State, t float64, dst *mat.Dense) {
	d := len(x)
	xp := x.Clone()
	xm := x.Clone()
	for j := 0; j < d; j++ {
		h := fdScale * math.Max(math.Abs(x[j]), 1.0)
		xp[j] = x[j] + h
		xm[j] = x[j] - h
		fp := fd.Sys.Derive(xp, t)
		fm := fd.Sys.Derive(xm, t)
		inv := 1.0 / (xp[j] - xm[j])
		for i := 0; i < d; i++ {
			dst.Set(i, j, (fp[i]-fm[i])*inv)
		}
		xp[j] = x[j]
		xm[j] = x[j]
	}
}

// JacobianFor selects the Jacobian strategy for sys: the analytic Jacobian
// when the system provides one, central finite differences otherwise.
func JacobianFor(sys System) JacobianStrategy {
	if d, ok := sys.(Differentiable); ok {
		return Analytic{Sys: d}
	}
	return FiniteDifference{Sys: sys}
}

// CheckJacobian evaluates strat once at x and verifies the state length
// matches the system dimension and that every Jacobian entry is finite.
// Configuration problems must surface here, before a run starts.
func CheckJacobian(sys System, strat JacobianStrategy, x State) error {
	d := sys.Dimension()
	if len(x) != d {
		return fmt.Errorf("%w: state has %d components, system has dimension %d",
			ErrDimensionMismatch, len(x), d)
	}
	j := mat.NewDense(d, d, nil)
	strat.Jacobian(x, 0, j)
	for r := 0; r < d; r++ {
		for c := 0; c < d; c++ {
			if v := j.At(r, c); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: jacobian entry (%d,%d) not finite at initial state",
					ErrDiverged, r, c)
			}
		}
	}
	return nil
}
