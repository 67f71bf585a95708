// Package scheduler contains the core batch accumulation and
// triggering engine. The main type is Scheduler, which can be created
// using New. Jobs are submitted one at a time and handed to a
// caller-supplied BatchProcessor in groups, amortizing per-call
// overhead across many jobs while bounding latency and memory.
//
// A batch fires on whichever of three conditions occurs first:
//
//   - Size: the pending count reaches BatchSize.
//   - Timeout: BatchTimeout passes with no new submissions. The timer
//     restarts on every accepted submission, so it debounces inactivity
//     rather than bounding end-to-end latency.
//   - Memory: the estimated footprint reaches MemoryLimitMB, when
//     AutoProcessOnMemoryLimit is set.
//
// Within one batch, jobs are presented to the processor in submission
// order. Jobs accepted after a snapshot is taken belong strictly to
// the next batch; no job appears in two batches, and at most one batch
// is in flight at a time.
//
// Lifecycle: Shutdown drains pending jobs through one final batch
// before completing, Stop discards them. Both make further submissions
// fail with ErrSchedulerShutDown.
//
// The identifier generator, memory estimator, logger and stats
// collector are pluggable collaborators with working defaults; see
// IDGenerator, Estimator, Logger and StatsCollector.
package scheduler
