package processor

import (
	"context"
	"time"

	"github.com/batchline/batchline/scheduler"
)

type nilProcessor[T any] struct {
	duration time.Duration
}

// Nil returns a BatchProcessor that reports every job as processed
// after sleeping for the specified duration, discarding the payloads.
// It can be used as a mock processor.
func Nil[T any](duration time.Duration) scheduler.BatchProcessor[T] {
	return &nilProcessor[T]{duration: duration}
}

// ProcessBatch sleeps, then acknowledges every job without doing work.
func (p *nilProcessor[T]) ProcessBatch(ctx context.Context, jobs []scheduler.Job[T]) ([]scheduler.Result[T], error) {
	if p.duration > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.duration):
		}
	}

	results := make([]scheduler.Result[T], len(jobs))
	for i, job := range jobs {
		results[i] = scheduler.Result[T]{
			Status: scheduler.StatusProcessed,
			JobID:  job.ID,
			Result: job.Payload,
		}
	}
	return results, nil
}
