package scheduler

import "context"

// Status describes the state of a job as reported in acknowledgements
// and processing results.
type Status string

const (
	// StatusSubmitted means the job has been accepted and is waiting in
	// the pending set for the next batch.
	StatusSubmitted Status = "submitted"

	// StatusProcessed means the processor handled the job successfully.
	StatusProcessed Status = "processed"

	// StatusFailed means the processor reported a failure for the job.
	StatusFailed Status = "failed"

	// StatusTimeout means the processor gave up on the job after its own
	// internal deadline.
	StatusTimeout Status = "timeout"

	// StatusNotFound means the job is not in the pending set. Jobs that
	// have already been handed to the processor also report not found.
	StatusNotFound Status = "not found"
)

// Job is a single unit of work, tagged with the identifier the scheduler
// assigned when it was accepted. Batches preserve submission order.
type Job[T any] struct {
	// ID uniquely identifies the job within the scheduler.
	ID string

	// Payload is the caller-supplied data to be processed.
	Payload T
}

// Result is the processor's verdict for one job in a batch.
type Result[T any] struct {
	// Status is one of StatusProcessed, StatusFailed or StatusTimeout.
	Status Status

	// JobID identifies the job this result belongs to. It must match the
	// ID of one of the jobs in the batch.
	JobID string

	// Result holds the processor's output for the job, if any.
	Result T

	// Message carries optional detail, typically set on failures.
	Message string
}

// Ack acknowledges a job operation. Submit returns one when ReturnAck
// is configured, and JobStatus always returns one.
type Ack struct {
	// Status is the job's current state from the scheduler's view.
	Status Status

	// JobID identifies the job.
	JobID string

	// Message carries optional detail.
	Message string
}

// BatchProcessor receives snapshots of pending jobs and processes them
// as a unit. Implementations are supplied by the caller and contain the
// business logic the scheduler amortizes calls into.
//
// Jobs arrive in submission order. The implementation must not retain
// or mutate the slice beyond the call, and should return one Result per
// job. A returned error marks the whole batch as failed; the scheduler
// does not retry it.
type BatchProcessor[T any] interface {
	ProcessBatch(ctx context.Context, jobs []Job[T]) ([]Result[T], error)
}

// ProcessorFunc adapts a plain function to the BatchProcessor interface.
//
// Example:
//
//	proc := scheduler.ProcessorFunc[string](func(ctx context.Context, jobs []scheduler.Job[string]) ([]scheduler.Result[string], error) {
//		results := make([]scheduler.Result[string], len(jobs))
//		for i, job := range jobs {
//			results[i] = scheduler.Result[string]{Status: scheduler.StatusProcessed, JobID: job.ID, Result: job.Payload}
//		}
//		return results, nil
//	})
type ProcessorFunc[T any] func(ctx context.Context, jobs []Job[T]) ([]Result[T], error)

// ProcessBatch implements the BatchProcessor interface.
func (f ProcessorFunc[T]) ProcessBatch(ctx context.Context, jobs []Job[T]) ([]Result[T], error) {
	return f(ctx, jobs)
}
