package processor

import (
	"context"
	"time"

	"github.com/batchline/batchline/scheduler"
)

// Retry wraps another processor and retries batch-wide failures. The
// scheduler itself never retries a batch; when at-least-once-ish
// behavior is wanted it belongs in a wrapping layer like this one.
//
// Only a batch-wide error triggers a retry. Per-job failed or timeout
// results are treated as final and passed through.
type Retry[T any] struct {
	// Processor is the wrapped processor that does the actual work.
	Processor scheduler.BatchProcessor[T]

	// Attempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	Attempts int

	// Backoff is the delay between tries. Zero means retry immediately.
	Backoff time.Duration
}

// ProcessBatch implements the BatchProcessor interface, retrying the
// wrapped processor up to Attempts times.
func (p *Retry[T]) ProcessBatch(ctx context.Context, jobs []scheduler.Job[T]) ([]scheduler.Result[T], error) {
	if p.Processor == nil {
		return nil, nil
	}

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		results []scheduler.Result[T]
		err     error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 && p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.Backoff):
			}
		}

		results, err = p.Processor.ProcessBatch(ctx, jobs)
		if err == nil {
			return results, nil
		}
	}
	return results, err
}
