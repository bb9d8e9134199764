package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

type Rossler struct{ a, b, c float64 }

func NewRossler() *Rossler           { return &Rossler{0.2, 0.2, 5.7} }
func (r *Rossler) Kind() dynamo.Kind { return dynamo.Continuous }
func (r *Rossler) Dimension() int    { return 3 }

// Derive calculates the Rossler attractor derivatives.
func (r *Rossler) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{-s[1] - s[2], s[0] + r.a*s[1], r.b + s[2]*(s[0]-r.c)}
}

// Jacobian writes the Rossler Jacobian at s.
func (r *Rossler) Jacobian(s dynamo.State, _ float64, dst *mat.Dense) {
	dst.Set(0, 0, 0)
	dst.Set(0, 1, -1)
	dst.Set(0, 2, -1)
	dst.Set(1, 0, 1)
	dst.Set(1, 1, r.a)
	dst.Set(1, 2, 0)
	dst.Set(2, 0, s[2])
	dst.Set(2, 1, 0)
	dst.Set(2, 2, s[0]-r.c)
}

func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.a, "b": r.b, "c": r.c}
}
func (r *Rossler) SetParam(n string, v float64) {
	switch n {
	case "a":
		r.a = v
	case "b":
		r.b = v
	case "c":
		r.c = v
	}
}
