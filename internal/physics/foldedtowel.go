package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

// FoldedTowel is Rössler's 3D hyperchaotic map:
//
//	x' = a·x·(1-x) - 0.05·(y+0.35)·(1-2z)
//	y' = 0.1·((y+0.35)·(1+2z) - 1)·(1 - 1.9x)
//	z' = c·z·(1-z) + b·y
//
// At the default parameters the reference spectrum is approximately
// (0.43, 0.37, -3.3): two positive exponents.
type FoldedTowel struct{ a, b, c float64 }

func NewFoldedTowel() *FoldedTowel        { return &FoldedTowel{3.8, 0.2, 3.78} }
func (f *FoldedTowel) Kind() dynamo.Kind  { return dynamo.Discrete }
func (f *FoldedTowel) Dimension() int     { return 3 }

func (f *FoldedTowel) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		f.a*x*(1-x) - 0.05*(y+0.35)*(1-2*z),
		0.1 * ((y+0.35)*(1+2*z) - 1) * (1 - 1.9*x),
		f.c*z*(1-z) + f.b*y,
	}
}

func (f *FoldedTowel) Jacobian(s dynamo.State, _ float64, dst *mat.Dense) {
	x, y, z := s[0], s[1], s[2]
	dst.Set(0, 0, f.a*(1-2*x))
	dst.Set(0, 1, -0.05*(1-2*z))
	dst.Set(0, 2, 0.1*(y+0.35))
	dst.Set(1, 0, -0.19*((y+0.35)*(1+2*z)-1))
	dst.Set(1, 1, 0.1*(1+2*z)*(1-1.9*x))
	dst.Set(1, 2, 0.2*(y+0.35)*(1-1.9*x))
	dst.Set(2, 0, 0)
	dst.Set(2, 1, f.b)
	dst.Set(2, 2, f.c*(1-2*z))
}

func (f *FoldedTowel) DefaultState() dynamo.State { return dynamo.State{0.085, -0.121, 0.075} }
func (f *FoldedTowel) GetParams() map[string]float64 {
	return map[string]float64{"a": f.a, "b": f.b, "c": f.c}
}
func (f *FoldedTowel) SetParam(n string, v float64) {
	switch n {
	case "a":
		f.a = v
	case "b":
		f.b = v
	case "c":
		f.c = v
	}
}
