package core

import (
	"errors"
	"fmt"
)

// Domain errors for π computations.
var (
	// ErrInvalidArgument indicates a non-positive digit or sample count.
	ErrInvalidArgument = errors.New("core: invalid argument")

	// ErrAcceleratorUnavailable indicates the selected accelerator cannot execute.
	ErrAcceleratorUnavailable = errors.New("core: accelerator unavailable")

	// ErrComputationFailed indicates both the accelerated and the CPU path failed.
	ErrComputationFailed = errors.New("core: computation failed")

	// ErrCanceled indicates the computation was interrupted by its context.
	ErrCanceled = errors.New("core: computation canceled")
)

// EngineError wraps an error with the engine and digit count it came from.
type EngineError struct {
	Engine  string
	Digits  Digits
	Wrapped error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s (digits=%d): %v", e.Engine, e.Digits, e.Wrapped)
}

func (e *EngineError) Unwrap() error {
	return e.Wrapped
}

// Canceled wraps a context error so callers can match both ErrCanceled and
// the original context.Canceled / context.DeadlineExceeded.
func Canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
