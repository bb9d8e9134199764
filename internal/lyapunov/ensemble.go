package lyapunov

import (
	"sync"

	"github.com/san-kum/tangent/internal/dynamo"
)

// Ensemble runs independent spectrum estimations over several initial
// conditions in parallel. A single run is strictly sequential, so each
// goroutine builds its own system and integrator from the factories and
// owns its state, deviation matrix, and accumulators exclusively.
type Ensemble struct {
	NewSystem     func() dynamo.System
	NewIntegrator func() dynamo.Integrator // nil for maps
}

// Run estimates one spectrum per initial condition. The first error aborts
// the whole ensemble, matching the no-partial-spectrum policy of a single
// run.
func (e *Ensemble) Run(x0s []dynamo.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(x0s))
	errs := make([]error, len(x0s))

	var wg sync.WaitGroup
	for i := range x0s {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			var integ dynamo.Integrator
			if e.NewIntegrator != nil {
				integ = e.NewIntegrator()
			}
			results[idx], errs[idx] = Spectrum(e.NewSystem(), integ, x0s[idx], cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
