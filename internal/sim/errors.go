package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig indicates an invalid engine configuration or initial state.
	ErrConfig = errors.New("sim: invalid configuration")

	// ErrNoEvent indicates that no finite next event exists.
	ErrNoEvent = errors.New("sim: no further events")

	// ErrDone indicates the simulator has already terminated.
	ErrDone = errors.New("sim: simulation done")

	// ErrInvalidState indicates a step produced NaN or Inf positions or velocities.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with event-loop context.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at t=%.9f: %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}
