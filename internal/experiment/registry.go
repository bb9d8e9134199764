// Package experiment wires named systems and integrators to the CLI.
package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/integrators"
	"github.com/san-kum/tangent/internal/physics"
)

type Registry struct {
	systems     map[string]func() dynamo.System
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		systems:     make(map[string]func() dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.systems["lorenz"] = func() dynamo.System { return physics.NewLorenz() }
	r.systems["rossler"] = func() dynamo.System { return physics.NewRossler() }
	r.systems["henon"] = func() dynamo.System { return physics.NewHenon() }
	r.systems["standard_map"] = func() dynamo.System { return physics.NewStandardMap() }
	r.systems["folded_towel"] = func() dynamo.System { return physics.NewFoldedTowel() }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetSystem(name string) (dynamo.System, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type defaultStater interface {
	DefaultState() dynamo.State
}

// InitialState returns the catalog default state for sys, or the origin if
// the system declares none.
func InitialState(sys dynamo.System) dynamo.State {
	if ds, ok := sys.(defaultStater); ok {
		return ds.DefaultState()
	}
	return make(dynamo.State, sys.Dimension())
}
