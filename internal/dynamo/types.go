package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Kind distinguishes continuous-time flows from discrete-time maps.
type Kind int

const (
	Continuous Kind = iota
	Discrete
)

func (k Kind) String() string {
	if k == Discrete {
		return "discrete"
	}
	return "continuous"
}

// System is a dynamical system. For Continuous systems Derive returns the
// time derivative dX/dt at x; for Discrete systems it returns the image
// f(x) of one map iteration. All catalog systems are autonomous; t exists
// for integrator bookkeeping.
type System interface {
	Kind() Kind
	Dimension() int
	Derive(x State, t float64) State
}

// Integrator advances a continuous system by one timestep.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator additionally supports error-controlled stepping.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Configurable is implemented by systems with tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}
