package processor

import (
	"context"
	"sync"

	"github.com/batchline/batchline/scheduler"
)

// Collector is a BatchProcessor that records every job it receives and
// reports it as processed. It is useful as the terminal processor in
// tests and examples, where the point is to observe what the scheduler
// handed over and in which batches.
//
// All methods are safe for concurrent use. Note that payloads are not
// deep-copied: if T contains reference types, later mutations are
// visible in the collected jobs.
type Collector[T any] struct {
	mu      sync.RWMutex
	batches [][]scheduler.Job[T]
}

// ProcessBatch implements the BatchProcessor interface by recording the
// batch and acknowledging every job.
func (c *Collector[T]) ProcessBatch(_ context.Context, jobs []scheduler.Job[T]) ([]scheduler.Result[T], error) {
	batch := make([]scheduler.Job[T], len(jobs))
	copy(batch, jobs)

	c.mu.Lock()
	c.batches = append(c.batches, batch)
	c.mu.Unlock()

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

// Batches returns a copy of the recorded batches in the order they were
// handed over.
func (c *Collector[T]) Batches() [][]scheduler.Job[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([][]scheduler.Job[T], len(c.batches))
	for i, batch := range c.batches {
		cp := make([]scheduler.Job[T], len(batch))
		copy(cp, batch)
		out[i] = cp
	}
	return out
}

// Jobs returns all recorded jobs across batches, in hand-over order.
func (c *Collector[T]) Jobs() []scheduler.Job[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []scheduler.Job[T]
	for _, batch := range c.batches {
		out = append(out, batch...)
	}
	return out
}

// Count returns the total number of jobs recorded so far.
func (c *Collector[T]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, batch := range c.batches {
		n += len(batch)
	}
	return n
}

// Reset clears all recorded batches so the collector can be reused.
func (c *Collector[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batches = nil
}
