// Package batchline implements micro-batching: individually submitted
// jobs are accumulated and handed to a caller-supplied processor in
// groups, amortizing per-call overhead (network, database, compute)
// across many jobs while bounding latency and memory.
//
// The core engine lives in the scheduler package. A batch fires when
// the configured size is reached, when an inactivity timeout elapses,
// or, optionally, when the estimated memory footprint of the pending
// jobs crosses a threshold.
//
// This package provides a fluent Builder for assembling a scheduler:
//
//	s, err := batchline.NewBuilder[string](proc).
//		WithBatchSize(50).
//		WithBatchTimeout(200 * time.Millisecond).
//		Build()
//
// Higher-level facades are available in the pipeline and sync
// packages, which turn individual blocking calls into transparently
// batched operations. Processor middleware (logging, retries) lives in
// the processor package, and serialization-based memory estimation in
// the estimate package.
package batchline
