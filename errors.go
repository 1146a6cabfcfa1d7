package tickq

import "errors"

var (
	// ErrInvalidCapacity is returned by the constructors when capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrInvalidInterval is returned by the constructors when the tick interval is not positive.
	ErrInvalidInterval = errors.New("tick interval must be positive")
	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("task panicked")
)
