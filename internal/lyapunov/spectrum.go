package lyapunov

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/ortho"
)

// defaultUnderflowTol flags deviation vectors that contracted to magnitudes
// where log accumulation loses meaning between renormalizations.
const defaultUnderflowTol = 1e-100

// maxHistory caps the number of convergence snapshots kept on a Result.
const maxHistory = 512

// Config controls a spectrum estimation run. Total, Renorm and Transient
// are measured in time units for flows and iterations for maps.
type Config struct {
	K            int     // number of exponents; 0 means system dimension
	Total        float64 // evolution measured after the transient
	Renorm       float64 // interval between orthonormalizations
	Transient    float64 // evolution discarded before tangent tracking starts
	Dt           float64 // integrator timestep for flows; ignored for maps
	UnderflowTol float64 // |R_ii| below this records a warning; 0 means default
}

// DefaultConfig returns run parameters that converge for the catalog
// systems: long runs with renormalization every time unit (flows) or every
// iteration (maps).
func DefaultConfig(sys dynamo.System) Config {
	if sys.Kind() == dynamo.Discrete {
		return Config{Total: 100000, Renorm: 1, Transient: 1000}
	}
	return Config{Total: 1000, Renorm: 1, Transient: 10, Dt: 0.01}
}

// Result is the outcome of a spectrum run.
type Result struct {
	Exponents []float64   // sorted descending
	History   [][]float64 // running estimate sampled over the run
	Cycles    int         // renormalization cycles performed
	Elapsed   float64     // evolution accumulated after the transient
	Warnings  []string    // non-fatal numerical signals (underflow)
}

// Spectrum estimates the cfg.K leading Lyapunov exponents of sys from x0.
//
// The run initializes the deviation matrix to the first k identity columns,
// discards cfg.Transient of bare-state evolution, then alternates stepping
// and renormalization, accumulating log|R_ii| at every QR factorization.
// The estimate is the accumulated sum divided by the elapsed evolution.
//
// A non-finite state or deviation vector aborts the run with an error
// wrapping [dynamo.ErrDiverged]; no partial spectrum is returned.
func Spectrum(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, cfg Config) (*Result, error) {
	d := sys.Dimension()
	k := cfg.K
	if k == 0 {
		k = d
	}
	if k < 1 || k > d {
		return nil, fmt.Errorf("%w: k=%d outside 1..%d", dynamo.ErrBadParameter, k, d)
	}
	if cfg.Total <= 0 {
		return nil, fmt.Errorf("%w: total evolution %g must be positive", dynamo.ErrBadParameter, cfg.Total)
	}
	if cfg.Renorm <= 0 {
		return nil, fmt.Errorf("%w: renormalization interval %g must be positive", dynamo.ErrBadParameter, cfg.Renorm)
	}
	if cfg.Transient < 0 {
		return nil, fmt.Errorf("%w: transient %g must be non-negative", dynamo.ErrBadParameter, cfg.Transient)
	}
	if sys.Kind() == dynamo.Continuous && cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt %g must be positive for flows", dynamo.ErrBadParameter, cfg.Dt)
	}
	underflowTol := cfg.UnderflowTol
	if underflowTol == 0 {
		underflowTol = defaultUnderflowTol
	}

	jac := dynamo.JacobianFor(sys)
	if err := dynamo.CheckJacobian(sys, jac, x0); err != nil {
		return nil, err
	}

	ts, err := NewTangentStepper(sys, jac, integ, k)
	if err != nil {
		return nil, err
	}
	orth, err := ortho.New(d, k)
	if err != nil {
		return nil, err
	}

	// per-step granularity and cycle layout
	dt := 1.0
	stepsPerCycle := int(math.Round(cfg.Renorm))
	if sys.Kind() == dynamo.Continuous {
		dt = cfg.Dt
		stepsPerCycle = int(math.Round(cfg.Renorm / cfg.Dt))
	}
	if stepsPerCycle < 1 {
		stepsPerCycle = 1
	}
	span := float64(stepsPerCycle) * dt
	cycles := int(math.Round(cfg.Total / span))
	if cycles < 1 {
		cycles = 1
	}

	x, t, err := runTransient(sys, integ, x0, cfg.Transient, dt)
	if err != nil {
		return nil, err
	}

	w := mat.NewDense(d, k, nil)
	for i := 0; i < k; i++ {
		w.Set(i, i, 1)
	}

	res := &Result{}
	sums := make([]float64, k)
	elapsed := 0.0
	step := 0
	warned := false

	historyStride := (cycles + maxHistory - 1) / maxHistory
	if historyStride < 1 {
		historyStride = 1
	}

	for c := 0; c < cycles; c++ {
		for s := 0; s < stepsPerCycle; s++ {
			x, err = ts.Step(x, w, t, dt)
			if err != nil {
				return nil, &dynamo.RunError{Step: step, Time: t, Wrapped: err}
			}
			t += dt
			step++
		}

		q, r, err := orth.Decompose(w)
		if err != nil {
			return nil, &dynamo.RunError{Step: step, Time: t, Wrapped: err}
		}

		elapsed += span
		for i := 0; i < k; i++ {
			rii := r.At(i, i)
			if rii < underflowTol && !warned {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"deviation vector %d contracted to %.3e at t=%.4f; decrease the renormalization interval", i, rii, t))
				warned = true
			}
			sums[i] += math.Log(rii)
		}
		w.Copy(q)
		res.Cycles++

		if res.Cycles%historyStride == 0 {
			est := make([]float64, k)
			for i := range est {
				est[i] = sums[i] / elapsed
			}
			res.History = append(res.History, est)
		}
	}

	res.Elapsed = elapsed
	res.Exponents = make([]float64, k)
	for i := range res.Exponents {
		res.Exponents[i] = sums[i] / elapsed
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(res.Exponents)))
	return res, nil
}

// runTransient advances the bare state without tangent tracking, letting
// the trajectory settle onto the attractor before measurement starts.
func runTransient(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, transient, dt float64) (dynamo.State, float64, error) {
	x := x0.Clone()
	t := 0.0
	if transient <= 0 {
		return x, t, nil
	}

	if sys.Kind() == dynamo.Discrete {
		for i := 0; i < int(transient); i++ {
			x = sys.Derive(x, t)
			t++
		}
	} else {
		for t < transient {
			x = integ.Step(sys, x, t, dt)
			t += dt
		}
	}
	if !x.IsValid() {
		return nil, t, &dynamo.RunError{Time: t, Wrapped: dynamo.ErrDiverged}
	}
	return x, t, nil
}
