// Package analysis derives summary quantities from Lyapunov spectra.
package analysis

import "math"

// KaplanYorke estimates the Lyapunov (Kaplan-Yorke) dimension from a
// spectrum sorted descending:
//
//	D_KY = j + (λ1 + ... + λj) / |λ_{j+1}|
//
// where j is the largest index whose cumulative sum is non-negative.
// Returns 0 when even λ1 is negative, and the full phase-space dimension
// when the cumulative sum never turns negative.
func KaplanYorke(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0
	}

	sum := 0.0
	for j, lam := range spectrum {
		if sum+lam < 0 {
			if lam == 0 {
				return float64(j)
			}
			return float64(j) + sum/math.Abs(lam)
		}
		sum += lam
	}
	return float64(len(spectrum))
}

// Chaotic reports whether the spectrum has at least one exponent above tol.
func Chaotic(spectrum []float64, tol float64) bool {
	return len(spectrum) > 0 && spectrum[0] > tol
}

// Hyperchaotic reports whether at least two exponents exceed tol.
func Hyperchaotic(spectrum []float64, tol float64) bool {
	return len(spectrum) > 1 && spectrum[1] > tol
}
