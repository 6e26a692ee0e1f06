package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation construction and stepping.
var (
	// ErrInvalidState indicates NaN or Inf in a body's position or
	// velocity, usually from a too-large dt or a near-collision.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates construction parameters outside their
	// valid range.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrNoBodies indicates a construction that produced an empty body
	// store.
	ErrNoBodies = errors.New("sim: no bodies to simulate")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g s): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
