package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/batchline/batchline/scheduler"
)

// Logging wraps another processor and logs each batch it handles: when
// processing starts, when it completes, and any errors encountered.
type Logging[T any] struct {
	// Processor is the wrapped processor that does the actual work.
	Processor scheduler.BatchProcessor[T]

	// Logger is used to log processing events.
	// If nil, no logging occurs.
	Logger scheduler.Logger

	// Name is an optional name for this processor used in log messages.
	// If empty, a generic name is used.
	Name string
}

// ProcessBatch implements the BatchProcessor interface by delegating to
// the wrapped processor and logging the operation.
func (p *Logging[T]) ProcessBatch(ctx context.Context, jobs []scheduler.Job[T]) ([]scheduler.Result[T], error) {
	if p.Processor == nil {
		return nil, nil
	}

	if p.Logger == nil {
		return p.Processor.ProcessBatch(ctx, jobs)
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%T", p.Processor)
	}

	start := time.Now()
	p.Logger.Debug("processor '%s' starting with %d job(s)", name, len(jobs))

	results, err := p.Processor.ProcessBatch(ctx, jobs)

	duration := time.Since(start)
	if err != nil {
		p.Logger.Error("processor '%s' failed after %v: %v", name, duration, err)
		return results, err
	}

	var processed, failed int
	for _, res := range results {
		if res.Status == scheduler.StatusProcessed {
			processed++
		} else {
			failed++
		}
	}
	p.Logger.Debug("processor '%s' completed in %v: %d job(s) (%d processed, %d failed)",
		name, duration, len(results), processed, failed)

	return results, nil
}

// WrapWithLogging wraps a processor with logging.
//
// Example:
//
//	logger := scheduler.NewZerologLogger(zl)
//	wrapped := processor.WrapWithLogging(myProcessor, logger, "my-processor")
func WrapWithLogging[T any](proc scheduler.BatchProcessor[T], logger scheduler.Logger, name string) *Logging[T] {
	return &Logging[T]{
		Processor: proc,
		Logger:    logger,
		Name:      name,
	}
}
