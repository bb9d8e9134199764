package lyapunov

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tangent/internal/dynamo"
	"github.com/san-kum/tangent/internal/integrators"
	"github.com/san-kum/tangent/internal/physics"
)

func TestDiagonalMapExactSpectrum(t *testing.T) {
	// u' = A·u with known eigenvalues: spectrum must be log|e_i| exactly,
	// for every k <= D.
	diag := []float64{2.0, 0.5, 0.25}
	want := []float64{math.Log(2.0), math.Log(0.5), math.Log(0.25)}

	for k := 1; k <= 3; k++ {
		sys := physics.NewDiagonalMap(diag...)
		res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
			K:      k,
			Total:  50,
			Renorm: 1,
		})
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(res.Exponents) != k {
			t.Fatalf("k=%d: got %d exponents", k, len(res.Exponents))
		}
		for i := 0; i < k; i++ {
			if diff := math.Abs(res.Exponents[i] - want[i]); diff > 1e-9 {
				t.Errorf("k=%d: exponent %d = %.12f, want %.12f", k, i, res.Exponents[i], want[i])
			}
		}
	}
}

func TestHenonSpectrum(t *testing.T) {
	sys := physics.NewHenon()
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:         2,
		Total:     200000,
		Renorm:    1,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	// published reference exponents for a=1.4, b=0.3
	if diff := math.Abs(res.Exponents[0] - 0.419); diff > 0.02 {
		t.Errorf("top exponent %.4f, want 0.419 +- 0.02", res.Exponents[0])
	}
	if res.Exponents[0] < res.Exponents[1] {
		t.Error("spectrum not sorted descending")
	}

	// det J = -b everywhere, so the exponents sum to ln(b) exactly
	sum := res.Exponents[0] + res.Exponents[1]
	if diff := math.Abs(sum - math.Log(0.3)); diff > 1e-6 {
		t.Errorf("exponent sum %.10f, want ln(0.3) = %.10f", sum, math.Log(0.3))
	}
}

func TestFoldedTowelSpectrum(t *testing.T) {
	sys := physics.NewFoldedTowel()
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:         3,
		Total:     300000,
		Renorm:    1,
		Transient: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.43, 0.37, -3.30}
	for i, w := range want {
		if diff := math.Abs(res.Exponents[i] - w); diff > 0.05 {
			t.Errorf("exponent %d = %.4f, want %.2f +- 0.05", i, res.Exponents[i], w)
		}
	}
	for i := 1; i < len(res.Exponents); i++ {
		if res.Exponents[i] > res.Exponents[i-1] {
			t.Error("spectrum not sorted descending")
		}
	}
}

func TestStandardMapVolumeConservation(t *testing.T) {
	sys := physics.NewStandardMap()
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:         2,
		Total:     100000,
		Renorm:    1,
		Transient: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	// area preserving: the exponents are a +-pair
	sum := res.Exponents[0] + res.Exponents[1]
	if math.Abs(sum) > 1e-6 {
		t.Errorf("exponent sum %.2e, want 0 for an area-preserving map", sum)
	}
}

func TestLorenzSpectrum(t *testing.T) {
	sys := physics.NewLorenz()
	res, err := Spectrum(sys, integrators.NewRK4(), sys.DefaultState(), Config{
		K:         3,
		Total:     1000,
		Renorm:    1,
		Transient: 20,
		Dt:        0.01,
	})
	if err != nil {
		t.Fatal(err)
	}

	// reference spectrum for sigma=10, rho=28, beta=8/3: (0.906, 0, -14.57)
	if diff := math.Abs(res.Exponents[0] - 0.906); diff > 0.1 {
		t.Errorf("top exponent %.4f, want 0.906 +- 0.1", res.Exponents[0])
	}
	if math.Abs(res.Exponents[1]) > 0.05 {
		t.Errorf("middle exponent %.4f, want ~0 (flow direction)", res.Exponents[1])
	}
	if diff := math.Abs(res.Exponents[2] + 14.57); diff > 0.2 {
		t.Errorf("bottom exponent %.4f, want -14.57 +- 0.2", res.Exponents[2])
	}

	// divergence-trace identity: sum(lambda) = tr J = -(sigma+1+beta)
	sum := res.Exponents[0] + res.Exponents[1] + res.Exponents[2]
	trace := -(10.0 + 1.0 + 8.0/3.0)
	if diff := math.Abs(sum - trace); diff > 0.1 {
		t.Errorf("exponent sum %.4f, want trace %.4f", sum, trace)
	}
}

func TestTopExponentIndependentOfK(t *testing.T) {
	top := make([]float64, 0, 2)
	for k := 1; k <= 2; k++ {
		sys := physics.NewHenon()
		res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
			K:         k,
			Total:     50000,
			Renorm:    1,
			Transient: 500,
		})
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		top = append(top, res.Exponents[0])
	}

	// the first deviation vector sees the same trajectory and the same
	// tangent dynamics whatever k is
	if diff := math.Abs(top[0] - top[1]); diff > 1e-3 {
		t.Errorf("top exponent depends on k: k=1 gives %.10f, k=2 gives %.10f", top[0], top[1])
	}
}

func TestDeterminism(t *testing.T) {
	run := func() *Result {
		sys := physics.NewHenon()
		res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
			K:         2,
			Total:     20000,
			Renorm:    1,
			Transient: 100,
		})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	for i := range a.Exponents {
		if a.Exponents[i] != b.Exponents[i] {
			t.Errorf("exponent %d differs between identical runs: %.17g vs %.17g",
				i, a.Exponents[i], b.Exponents[i])
		}
	}
}

func TestDivergenceAborts(t *testing.T) {
	// the state of u' = 2u overflows to Inf after ~1024 doublings
	sys := physics.NewDiagonalMap(2.0, 0.5)
	_, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:      2,
		Total:  5000,
		Renorm: 1,
	})
	if !errors.Is(err, dynamo.ErrDiverged) {
		t.Errorf("expected ErrDiverged, got %v", err)
	}
}

func TestUnderflowWarning(t *testing.T) {
	sys := physics.NewDiagonalMap(0.5, 1e-120)
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:      2,
		Total:  10,
		Renorm: 1,
	})
	if err != nil {
		t.Fatalf("underflow must be non-fatal: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected an underflow warning")
	}
	if len(res.Exponents) != 2 {
		t.Error("expected a full spectrum despite the warning")
	}
}

func TestSpectrumValidation(t *testing.T) {
	henon := physics.NewHenon()
	lorenz := physics.NewLorenz()

	cases := []struct {
		name string
		sys  dynamo.System
		x0   dynamo.State
		cfg  Config
		want error
	}{
		{"k too large", henon, henon.DefaultState(), Config{K: 3, Total: 10, Renorm: 1}, dynamo.ErrBadParameter},
		{"zero total", henon, henon.DefaultState(), Config{K: 2, Renorm: 1}, dynamo.ErrBadParameter},
		{"zero renorm", henon, henon.DefaultState(), Config{K: 2, Total: 10}, dynamo.ErrBadParameter},
		{"negative transient", henon, henon.DefaultState(), Config{K: 2, Total: 10, Renorm: 1, Transient: -1}, dynamo.ErrBadParameter},
		{"flow without dt", lorenz, lorenz.DefaultState(), Config{K: 3, Total: 10, Renorm: 1}, dynamo.ErrBadParameter},
		{"wrong state length", henon, dynamo.State{1}, Config{K: 2, Total: 10, Renorm: 1}, dynamo.ErrDimensionMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var integ dynamo.Integrator
			if tc.sys.Kind() == dynamo.Continuous {
				integ = integrators.NewRK4()
			}
			if _, err := Spectrum(tc.sys, integ, tc.x0, tc.cfg); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSpectrumDefaultsKToDimension(t *testing.T) {
	sys := physics.NewHenon()
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{Total: 1000, Renorm: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Exponents) != 2 {
		t.Errorf("expected dimension-many exponents, got %d", len(res.Exponents))
	}
}

func TestConvergenceHistory(t *testing.T) {
	sys := physics.NewHenon()
	res, err := Spectrum(sys, nil, sys.DefaultState(), Config{
		K:      2,
		Total:  5000,
		Renorm: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cycles != 5000 {
		t.Errorf("expected 5000 cycles, got %d", res.Cycles)
	}
	if len(res.History) == 0 || len(res.History) > maxHistory {
		t.Errorf("history length %d outside (0, %d]", len(res.History), maxHistory)
	}
	if len(res.History[0]) != 2 {
		t.Errorf("history rows should have k entries, got %d", len(res.History[0]))
	}
}

func BenchmarkHenonSpectrum(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sys := physics.NewHenon()
		if _, err := Spectrum(sys, nil, sys.DefaultState(), Config{
			K:      2,
			Total:  10000,
			Renorm: 1,
		}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLorenzSpectrum(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sys := physics.NewLorenz()
		if _, err := Spectrum(sys, integrators.NewRK4(), sys.DefaultState(), Config{
			K:      3,
			Total:  10,
			Renorm: 1,
			Dt:     0.01,
		}); err != nil {
			b.Fatal(err)
		}
	}
}
