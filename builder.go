package batchline

import (
	"time"

	"github.com/batchline/batchline/scheduler"
)

// Builder assembles a scheduler from the options specified by the With
// methods. The With methods do not modify the Builder they operate on,
// and instead return a new Builder based on the original, so partially
// configured builders can be shared and forked.
type Builder[T any] struct {
	processor scheduler.BatchProcessor[T]
	cfg       scheduler.Config
	logger    scheduler.Logger
	stats     scheduler.StatsCollector
	idGen     scheduler.IDGenerator
	estimator scheduler.Estimator[T]
}

// NewBuilder returns a Builder for a scheduler that hands batches to
// processor. Without further With calls, Build produces a scheduler
// with the documented defaults.
func NewBuilder[T any](processor scheduler.BatchProcessor[T]) *Builder[T] {
	return &Builder[T]{processor: processor}
}

// WithBatchSize returns a Builder with the given size trigger. Values
// are clamped as documented on scheduler.Config.
func (b *Builder[T]) WithBatchSize(size int) *Builder[T] {
	nb := *b
	nb.cfg.BatchSize = size
	return &nb
}

// WithBatchTimeout returns a Builder with the given inactivity
// debounce.
func (b *Builder[T]) WithBatchTimeout(timeout time.Duration) *Builder[T] {
	nb := *b
	nb.cfg.BatchTimeout = timeout
	return &nb
}

// WithMemoryLimitMB returns a Builder with the given footprint
// threshold and the memory trigger enabled.
func (b *Builder[T]) WithMemoryLimitMB(limitMB float64) *Builder[T] {
	nb := *b
	nb.cfg.MemoryLimitMB = limitMB
	nb.cfg.AutoProcessOnMemoryLimit = true
	return &nb
}

// WithReturnAck returns a Builder whose scheduler populates the Ack
// returned by Submit.
func (b *Builder[T]) WithReturnAck() *Builder[T] {
	nb := *b
	nb.cfg.ReturnAck = true
	return &nb
}

// WithLogger returns a Builder with a custom logger.
func (b *Builder[T]) WithLogger(logger scheduler.Logger) *Builder[T] {
	nb := *b
	nb.logger = logger
	return &nb
}

// WithStats returns a Builder with a custom stats collector.
func (b *Builder[T]) WithStats(stats scheduler.StatsCollector) *Builder[T] {
	nb := *b
	nb.stats = stats
	return &nb
}

// WithIDGenerator returns a Builder with a custom identifier generator.
func (b *Builder[T]) WithIDGenerator(gen scheduler.IDGenerator) *Builder[T] {
	nb := *b
	nb.idGen = gen
	return &nb
}

// WithEstimator returns a Builder with a custom memory estimator.
func (b *Builder[T]) WithEstimator(estimator scheduler.Estimator[T]) *Builder[T] {
	nb := *b
	nb.estimator = estimator
	return &nb
}

// Build creates the scheduler. It fails if no processor was supplied to
// NewBuilder.
func (b *Builder[T]) Build() (*scheduler.Scheduler[T], error) {
	s, err := scheduler.New[T](b.processor, &b.cfg)
	if err != nil {
		return nil, err
	}

	return s.
		WithLogger(b.logger).
		WithStats(b.stats).
		WithIDGenerator(b.idGen).
		WithEstimator(b.estimator), nil
}
