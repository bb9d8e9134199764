package lyapunov

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/physics"
)

func TestEnsembleConvergesAcrossInitialConditions(t *testing.T) {
	e := &Ensemble{
		NewSystem: func() dynamo.System { return physics.NewHenon() },
	}

	x0s := []dynamo.State{{0.1, 0.1}, {0.2, 0.05}, {-0.1, 0.15}}
	results, err := e.Run(x0s, Config{
		K:         2,
		Total:     50000,
		Renorm:    1,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(x0s) {
		t.Fatalf("expected %d results, got %d", len(x0s), len(results))
	}

	// all basins converge to the same attractor, so the estimates agree
	for i := 1; i < len(results); i++ {
		if diff := math.Abs(results[i].Exponents[0] - results[0].Exponents[0]); diff > 0.02 {
			t.Errorf("run %d top exponent %.4f deviates from run 0's %.4f",
				i, results[i].Exponents[0], results[0].Exponents[0])
		}
	}
}

func TestEnsemblePropagatesErrors(t *testing.T) {
	e := &Ensemble{
		NewSystem: func() dynamo.System { return physics.NewDiagonalMap(2.0, 0.5) },
	}

	_, err := e.Run([]dynamo.State{{1, 1}, {2, 2}}, Config{K: 2, Total: 5000, Renorm: 1})
	if !errors.Is(err, dynamo.ErrDiverged) {
		t.Errorf("expected ErrDiverged, got %v", err)
	}
}
