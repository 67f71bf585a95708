package pipeline

import (
	"context"
	"time"

	"github.com/batchline/batchline/scheduler"
)

// DoerElem is one pending call flowing through a Doer. The DoerFunc
// reads Input and writes Output (and optionally SetError) for each
// element it receives.
type DoerElem[In, Out any] struct {
	// Input is the value passed to Do.
	Input In

	// Output is the result handed back to the Do caller.
	Output Out

	err  error
	done chan struct{}
}

// SetError marks this element's call as failed. The error is returned
// from the corresponding Do call.
func (e *DoerElem[In, Out]) SetError(err error) {
	e.err = err
}

// DoerFunc performs one batched operation over all pending elements.
// Implementations fill in each element's Output (or SetError). A
// returned error fails every element in the batch.
type DoerFunc[In, Out any] func(ctx context.Context, elems []*DoerElem[In, Out]) error

// DoerOptions configures the batching behavior of a Doer.
type DoerOptions struct {
	// BatchSize is the call count that triggers an immediate batch.
	BatchSize int

	// BatchTimeout is the inactivity debounce before a partial batch
	// fires.
	BatchTimeout time.Duration
}

// DefaultDoerOptions returns sensible defaults for a Doer.
func DefaultDoerOptions() *DoerOptions {
	return &DoerOptions{
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// Doer provides a synchronous Do call that is batched behind the
// scenes: concurrent Do calls accumulate and are handed to the DoerFunc
// as one batch when the size or timeout trigger fires.
type Doer[In, Out any] struct {
	sched *scheduler.Scheduler[*DoerElem[In, Out]]
}

// NewDoer creates a Doer around f. If options is nil, defaults are
// used.
func NewDoer[In, Out any](f DoerFunc[In, Out], options *DoerOptions) (*Doer[In, Out], error) {
	if options == nil {
		options = DefaultDoerOptions()
	}

	d := &Doer[In, Out]{}

	proc := scheduler.ProcessorFunc[*DoerElem[In, Out]](func(ctx context.Context, jobs []scheduler.Job[*DoerElem[In, Out]]) ([]scheduler.Result[*DoerElem[In, Out]], error) {
		elems := make([]*DoerElem[In, Out], len(jobs))
		for i, job := range jobs {
			elems[i] = job.Payload
		}

		err := f(ctx, elems)

		results := make([]scheduler.Result[*DoerElem[In, Out]], len(jobs))
		for i, job := range jobs {
			elem := job.Payload
			if err != nil {
				elem.err = err
			}

			status := scheduler.StatusProcessed
			if elem.err != nil {
				status = scheduler.StatusFailed
			}
			results[i] = scheduler.Result[*DoerElem[In, Out]]{
				Status: status,
				JobID:  job.ID,
				Result: elem,
			}
			close(elem.done)
		}

		// Failures have already been delivered to the blocked callers,
		// so the batch itself reports success to the scheduler.
		return results, nil
	})

	sched, err := scheduler.New[*DoerElem[In, Out]](proc, &scheduler.Config{
		BatchSize:    options.BatchSize,
		BatchTimeout: options.BatchTimeout,
	})
	if err != nil {
		return nil, err
	}

	d.sched = sched
	return d, nil
}

// Do submits one call and blocks until its batch has been executed or
// ctx is done. Concurrent Do calls are batched together.
func (d *Doer[In, Out]) Do(ctx context.Context, val In) (Out, error) {
	elem := &DoerElem[In, Out]{
		Input: val,
		done:  make(chan struct{}),
	}

	if _, err := d.sched.Submit(elem); err != nil {
		var zero Out
		return zero, err
	}

	select {
	case <-elem.done:
		return elem.Output, elem.err
	case <-ctx.Done():
		var zero Out
		return zero, ctx.Err()
	}
}

// Close drains pending calls through one final batch and stops
// accepting new ones. Do fails with scheduler.ErrSchedulerShutDown
// afterwards.
func (d *Doer[In, Out]) Close(ctx context.Context) error {
	return d.sched.Shutdown(ctx)
}
