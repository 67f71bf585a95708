package scheduler

import (
	"errors"
	"fmt"
)

// ErrSchedulerShutDown is returned by Submit after Shutdown or Stop has
// been called. The rejected job is never stored.
var ErrSchedulerShutDown = errors.New("scheduler is shut down")

// ErrNilProcessor is returned by New when no BatchProcessor is supplied.
var ErrNilProcessor = errors.New("batch processor is required")

// ProcessorError wraps a failure raised by the BatchProcessor so the
// caller can tell processor failures apart from scheduler errors.
type ProcessorError struct {
	Err error
}

func (e ProcessorError) Error() string {
	return fmt.Sprintf("processor error: %v", e.Err)
}

func (e ProcessorError) Unwrap() error {
	return e.Err
}
