package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for estimation runs.
var (
	// ErrDimensionMismatch indicates mismatched state/system/Jacobian dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrDiverged indicates the trajectory or tangent vectors became non-finite.
	ErrDiverged = errors.New("dynamo: trajectory diverged (NaN or Inf detected)")

	// ErrBadParameter indicates an invalid run parameter (k, T, dt, interval).
	ErrBadParameter = errors.New("dynamo: parameter out of valid bounds")
)

// RunError wraps an error with the step and time at which it occurred.
type RunError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
