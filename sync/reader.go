package sync

import (
	"context"
	"time"

	"github.com/batchline/batchline/scheduler"
)

// BatchReader provides synchronous read operations that are batched
// behind the scenes. Concurrent Get calls are grouped and served by a
// single ReadFunc call, with duplicate keys fetched once.
type BatchReader[K comparable, V any] struct {
	sched *scheduler.Scheduler[*readRequest[K, V]]
}

// ReaderOptions configures the batching behavior of a BatchReader.
type ReaderOptions struct {
	// BatchSize is the call count that triggers an immediate fetch.
	BatchSize int

	// BatchTimeout is the inactivity debounce before a partial batch is
	// fetched.
	BatchTimeout time.Duration
}

// NewBatchReader creates a BatchReader around readFunc. If options is
// nil, scheduler defaults apply.
func NewBatchReader[K comparable, V any](readFunc ReadFunc[K, V], options *ReaderOptions) (*BatchReader[K, V], error) {
	var cfg scheduler.Config
	if options != nil {
		cfg.BatchSize = options.BatchSize
		cfg.BatchTimeout = options.BatchTimeout
	}

	proc := scheduler.ProcessorFunc[*readRequest[K, V]](func(ctx context.Context, jobs []scheduler.Job[*readRequest[K, V]]) ([]scheduler.Result[*readRequest[K, V]], error) {
		keys := make([]K, 0, len(jobs))
		seen := make(map[K]struct{}, len(jobs))
		for _, job := range jobs {
			if _, ok := seen[job.Payload.key]; ok {
				continue
			}
			seen[job.Payload.key] = struct{}{}
			keys = append(keys, job.Payload.key)
		}

		data, err := readFunc(ctx, keys)

		results := make([]scheduler.Result[*readRequest[K, V]], len(jobs))
		for i, job := range jobs {
			req := job.Payload
			status := scheduler.StatusProcessed
			if err != nil {
				var zero V
				req.send(zero, err)
				status = scheduler.StatusFailed
			} else {
				req.send(data[req.key], nil)
			}
			results[i] = scheduler.Result[*readRequest[K, V]]{
				Status: status,
				JobID:  job.ID,
				Result: req,
			}
		}

		// Errors have been delivered to the blocked callers already.
		return results, nil
	})

	sched, err := scheduler.New[*readRequest[K, V]](proc, &cfg)
	if err != nil {
		return nil, err
	}

	return &BatchReader[K, V]{sched: sched}, nil
}

// Get retrieves a value by key. It blocks until the batched fetch
// completes or ctx is done. Multiple concurrent Get calls are batched
// together according to the reader options.
func (r *BatchReader[K, V]) Get(ctx context.Context, key K) (V, error) {
	req := &readRequest[K, V]{
		key:      key,
		response: make(chan readResponse[V], 1),
	}

	if _, err := r.sched.Submit(req); err != nil {
		var zero V
		return zero, err
	}

	select {
	case resp := <-req.response:
		return resp.value, resp.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Close drains pending reads through one final fetch and stops
// accepting new calls.
func (r *BatchReader[K, V]) Close(ctx context.Context) error {
	return r.sched.Shutdown(ctx)
}
