package verlet

import (
	"errors"
	"fmt"

	"github.com/san-kum/ropesim/internal/vec"
)

// Domain errors for building a simulation.
var (
	// ErrUnknownPoint indicates a handle that does not refer to a point.
	ErrUnknownPoint = errors.New("verlet: unknown point handle")

	// ErrSelfStick indicates a stick whose endpoints are the same point.
	ErrSelfStick = errors.New("verlet: stick endpoints must differ")

	// ErrInvalidLength indicates a negative or non-finite rest length.
	ErrInvalidLength = errors.New("verlet: invalid rest length")

	// ErrInvalidState indicates a point position became NaN or Inf.
	ErrInvalidState = errors.New("verlet: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the step at which it was detected.
type StepError struct {
	Step    int
	Time    float64
	Point   Handle
	Pos     vec.Vec2
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) point %d at %v: %v", e.Step, e.Time, e.Point, e.Pos, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
