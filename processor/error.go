package processor

import (
	"context"

	"github.com/batchline/batchline/scheduler"
)

type errorProcessor[T any] struct {
	err error
}

// Error returns a BatchProcessor that fails every batch with the given
// error. It is useful for testing error handling around the scheduler.
func Error[T any](err error) scheduler.BatchProcessor[T] {
	return &errorProcessor[T]{err: err}
}

// ProcessBatch fails the whole batch.
func (p *errorProcessor[T]) ProcessBatch(_ context.Context, _ []scheduler.Job[T]) ([]scheduler.Result[T], error) {
	return nil, p.err
}
