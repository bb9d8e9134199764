package physics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

// StandardMap is the Chirikov standard map on the torus:
//
//	θ' = θ + p + K·sin(θ)   (mod 2π)
//	p' = p + K·sin(θ)       (mod 2π)
//
// Area preserving: det J = 1 everywhere, so the two exponents sum to zero.
type StandardMap struct{ k float64 }

func NewStandardMap() *StandardMap       { return &StandardMap{0.971635} }
func (m *StandardMap) Kind() dynamo.Kind { return dynamo.Discrete }
func (m *StandardMap) Dimension() int    { return 2 }

func (m *StandardMap) Derive(s dynamo.State, _ float64) dynamo.State {
	kick := m.k * math.Sin(s[0])
	return dynamo.State{wrap2Pi(s[0] + s[1] + kick), wrap2Pi(s[1] + kick)}
}

// Jacobian is evaluated before the torus wrap; the wrap is a translation
// and does not affect derivatives.
func (m *StandardMap) Jacobian(s dynamo.State, _ float64, dst *mat.Dense) {
	c := m.k * math.Cos(s[0])
	dst.Set(0, 0, 1+c)
	dst.Set(0, 1, 1)
	dst.Set(1, 0, c)
	dst.Set(1, 1, 1)
}

func (m *StandardMap) DefaultState() dynamo.State { return dynamo.State{3.0, 1.8} }
func (m *StandardMap) GetParams() map[string]float64 {
	return map[string]float64{"k": m.k}
}
func (m *StandardMap) SetParam(n string, v float64) {
	if n == "k" {
		m.k = v
	}
}

func wrap2Pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}
