package sync

import (
	"context"
	"time"

	"github.com/batchline/batchline/scheduler"
)

// BatchWriter provides synchronous write operations that are batched
// behind the scenes. Concurrent Set calls are grouped into a single
// WriteFunc call; for duplicate keys within a batch, the last write
// wins.
type BatchWriter[K comparable, V any] struct {
	sched *scheduler.Scheduler[*writeRequest[K, V]]
}

// WriterOptions configures the batching behavior of a BatchWriter.
type WriterOptions struct {
	// BatchSize is the call count that triggers an immediate flush.
	BatchSize int

	// BatchTimeout is the inactivity debounce before a partial batch is
	// flushed.
	BatchTimeout time.Duration
}

// NewBatchWriter creates a BatchWriter around writeFunc. If options is
// nil, scheduler defaults apply.
func NewBatchWriter[K comparable, V any](writeFunc WriteFunc[K, V], options *WriterOptions) (*BatchWriter[K, V], error) {
	var cfg scheduler.Config
	if options != nil {
		cfg.BatchSize = options.BatchSize
		cfg.BatchTimeout = options.BatchTimeout
	}

	proc := scheduler.ProcessorFunc[*writeRequest[K, V]](func(ctx context.Context, jobs []scheduler.Job[*writeRequest[K, V]]) ([]scheduler.Result[*writeRequest[K, V]], error) {
		data := make(map[K]V, len(jobs))
		for _, job := range jobs {
			data[job.Payload.key] = job.Payload.value
		}

		err := writeFunc(ctx, data)

		results := make([]scheduler.Result[*writeRequest[K, V]], len(jobs))
		for i, job := range jobs {
			req := job.Payload
			req.send(err)

			status := scheduler.StatusProcessed
			if err != nil {
				status = scheduler.StatusFailed
			}
			results[i] = scheduler.Result[*writeRequest[K, V]]{
				Status: status,
				JobID:  job.ID,
				Result: req,
			}
		}

		// Errors have been delivered to the blocked callers already.
		return results, nil
	})

	sched, err := scheduler.New[*writeRequest[K, V]](proc, &cfg)
	if err != nil {
		return nil, err
	}

	return &BatchWriter[K, V]{sched: sched}, nil
}

// Set writes a key-value pair. It blocks until the batched flush
// completes or ctx is done. Multiple concurrent Set calls are batched
// together according to the writer options.
func (w *BatchWriter[K, V]) Set(ctx context.Context, key K, value V) error {
	req := &writeRequest[K, V]{
		key:      key,
		value:    value,
		response: make(chan error, 1),
	}

	if _, err := w.sched.Submit(req); err != nil {
		return err
	}

	select {
	case err := <-req.response:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes through one final flush and stops
// accepting new calls.
func (w *BatchWriter[K, V]) Close(ctx context.Context) error {
	return w.sched.Shutdown(ctx)
}
