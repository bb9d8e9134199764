package lyapunov

import (
	"fmt"
	"math"

	"github.com/san-kum/tangent/internal/dynamo"
)

// LargestConfig controls a two-trajectory estimation of the top exponent.
type LargestConfig struct {
	Total        float64 // evolution after the transient
	Transient    float64 // evolution discarded first
	Dt           float64 // integrator timestep for flows; ignored for maps
	Perturbation float64 // initial separation; 0 means 1e-9
}

// Largest estimates the largest Lyapunov exponent by evolving a reference
// and a perturbed trajectory, accumulating the log separation growth, and
// rescaling the perturbed trajectory back to the reference separation after
// every step. A positive value indicates chaos.
//
// No Jacobian is required; for the full spectrum use [Spectrum].
func Largest(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, cfg LargestConfig) (float64, error) {
	d := sys.Dimension()
	if len(x0) != d {
		return 0, fmt.Errorf("%w: state has %d components, system has dimension %d",
			dynamo.ErrDimensionMismatch, len(x0), d)
	}
	if cfg.Total <= 0 {
		return 0, fmt.Errorf("%w: total evolution %g must be positive", dynamo.ErrBadParameter, cfg.Total)
	}
	if sys.Kind() == dynamo.Continuous && (cfg.Dt <= 0 || integ == nil) {
		return 0, fmt.Errorf("%w: flows need an integrator and positive dt", dynamo.ErrBadParameter)
	}

	d0 := cfg.Perturbation
	if d0 == 0 {
		d0 = 1e-9
	}

	dt := 1.0
	if sys.Kind() == dynamo.Continuous {
		dt = cfg.Dt
	}

	advance := func(x dynamo.State, t float64) dynamo.State {
		if sys.Kind() == dynamo.Discrete {
			return sys.Derive(x, t)
		}
		return integ.Step(sys, x, t, dt)
	}

	x, t, err := runTransient(sys, integ, x0, cfg.Transient, dt)
	if err != nil {
		return 0, err
	}

	xp := x.Clone()
	xp[0] += d0

	sumLog := 0.0
	elapsed := 0.0
	step := 0

	for elapsed < cfg.Total {
		x = advance(x, t)
		xp = advance(xp, t)
		t += dt
		elapsed += dt
		step++

		if !x.IsValid() || !xp.IsValid() {
			return 0, &dynamo.RunError{Step: step, Time: t, Wrapped: dynamo.ErrDiverged}
		}

		sep := 0.0
		for i := range x {
			diff := xp[i] - x[i]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)
		if sep == 0 {
			return 0, &dynamo.RunError{Step: step, Time: t,
				Wrapped: fmt.Errorf("%w: trajectories merged", dynamo.ErrDiverged)}
		}

		sumLog += math.Log(sep / d0)

		// Rescale the perturbed trajectory back onto the d0 shell so the
		// separation stays in the linear regime.
		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	return sumLog / elapsed, nil
}
