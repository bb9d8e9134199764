package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
)

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz            { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) Kind() dynamo.Kind { return dynamo.Continuous }
func (l *Lorenz) Dimension() int    { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{l.sigma * (s[1] - s[0]), s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

// Jacobian writes the Lorenz Jacobian at s. Its trace is the constant
// -(sigma+1+beta), which the spectrum sum must reproduce.
func (l *Lorenz) Jacobian(s dynamo.State, _ float64, dst *mat.Dense) {
	dst.Set(0, 0, -l.sigma)
	dst.Set(0, 1, l.sigma)
	dst.Set(0, 2, 0)
	dst.Set(1, 0, l.rho-s[2])
	dst.Set(1, 1, -1)
	dst.Set(1, 2, -s[0])
	dst.Set(2, 0, s[1])
	dst.Set(2, 1, s[0])
	dst.Set(2, 2, -l.beta)
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}
func (l *Lorenz) SetParam(n string, v float64) {
	switch n {
	case "sigma":
		l.sigma = v
	case "rho":
		l.rho = v
	case "beta":
		l.beta = v
	}
}
