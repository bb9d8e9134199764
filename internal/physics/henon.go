package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

// Henon is the Hénon map x' = 1 - a·x² + y, y' = b·x. At the classic
// parameters its exponents are approximately (0.419, -1.623), and their sum
// is exactly ln(b), the log of the constant Jacobian determinant.
type Henon struct{ a, b float64 }

func NewHenon() *Henon             { return &Henon{1.4, 0.3} }
func (h *Henon) Kind() dynamo.Kind { return dynamo.Discrete }
func (h *Henon) Dimension() int    { return 2 }

func (h *Henon) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{1 - h.a*s[0]*s[0] + s[1], h.b * s[0]}
}

func (h *Henon) Jacobian(s dynamo.State, _ float64, dst *mat.Dense) {
	dst.Set(0, 0, -2*h.a*s[0])
	dst.Set(0, 1, 1)
	dst.Set(1, 0, h.b)
	dst.Set(1, 1, 0)
}

func (h *Henon) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1} }
func (h *Henon) GetParams() map[string]float64 {
	return map[string]float64{"a": h.a, "b": h.b}
}
func (h *Henon) SetParam(n string, v float64) {
	switch n {
	case "a":
		h.a = v
	case "b":
		h.b = v
	}
}
