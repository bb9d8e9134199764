package lyapunov

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/integrators"
	"github.com/san-kum/tangent/internal/physics"
)

func TestLargestHenon(t *testing.T) {
	sys := physics.NewHenon()
	got, err := Largest(sys, nil, sys.DefaultState(), LargestConfig{
		Total:     200000,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := math.Abs(got - 0.419); diff > 0.03 {
		t.Errorf("largest exponent %.4f, want 0.419 +- 0.03", got)
	}
}

func TestLargestLorenz(t *testing.T) {
	sys := physics.NewLorenz()
	got, err := Largest(sys, integrators.NewRK4(), sys.DefaultState(), LargestConfig{
		Total:     500,
		Transient: 20,
		Dt:        0.01,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := math.Abs(got - 0.906); diff > 0.15 {
		t.Errorf("largest exponent %.4f, want 0.906 +- 0.15", got)
	}
}

func TestLargestAgreesWithSpectrum(t *testing.T) {
	sys := physics.NewHenon()
	direct, err := Largest(sys, nil, sys.DefaultState(), LargestConfig{
		Total:     100000,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Spectrum(physics.NewHenon(), nil, sys.DefaultState(), Config{
		K:         1,
		Total:     100000,
		Renorm:    1,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := math.Abs(direct - res.Exponents[0]); diff > 0.03 {
		t.Errorf("two-trajectory %.4f vs tangent-space %.4f", direct, res.Exponents[0])
	}
}

func TestLargestValidation(t *testing.T) {
	sys := physics.NewHenon()
	if _, err := Largest(sys, nil, dynamo.State{1}, LargestConfig{Total: 10}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Error("expected dimension mismatch error")
	}
	if _, err := Largest(sys, nil, sys.DefaultState(), LargestConfig{}); !errors.Is(err, dynamo.ErrBadParameter) {
		t.Error("expected error for zero total")
	}

	lorenz := physics.NewLorenz()
	if _, err := Largest(lorenz, nil, lorenz.DefaultState(), LargestConfig{Total: 10, Dt: 0.01}); !errors.Is(err, dynamo.ErrBadParameter) {
		t.Error("expected error for flow without integrator")
	}
}

func TestLargestDivergenceAborts(t *testing.T) {
	sys := physics.NewDiagonalMap(2.0, 0.5)
	_, err := Largest(sys, nil, sys.DefaultState(), LargestConfig{Total: 5000})
	if !errors.Is(err, dynamo.ErrDiverged) {
		t.Errorf("expected ErrDiverged, got %v", err)
	}
}
