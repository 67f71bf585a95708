// Package processor provides BatchProcessor implementations and
// middleware for the scheduler: wrappers that add logging or retries
// around a caller's processor, a collector for capturing batches in
// tests, and simple mock processors.
//
// Wrappers compose in the usual way:
//
//	proc := processor.WrapWithLogging(
//		&processor.Retry[string]{Processor: myProc, Attempts: 3},
//		logger, "my-processor")
package processor
