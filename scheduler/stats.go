package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Trigger identifies what caused a batch to fire.
type Trigger string

const (
	// TriggerSize fires when the pending count reaches BatchSize.
	TriggerSize Trigger = "size"

	// TriggerMemory fires when the estimated footprint reaches
	// MemoryLimitMB and AutoProcessOnMemoryLimit is set.
	TriggerMemory Trigger = "memory"

	// TriggerTimeout fires when the debounce timer elapses.
	TriggerTimeout Trigger = "timeout"

	// TriggerForce fires from an explicit ForceProcess call.
	TriggerForce Trigger = "force"

	// TriggerShutdown fires from the drain performed by Shutdown.
	TriggerShutdown Trigger = "shutdown"
)

// StatsCollector receives metrics about scheduler activity.
// Implementations can store metrics in memory or forward them to
// monitoring systems. The collector is optional; if not set, no
// statistics are collected.
type StatsCollector interface {
	// RecordJobAccepted is called for every job that enters the pending set.
	RecordJobAccepted()

	// RecordBatchStart is called when a batch is handed to the processor.
	RecordBatchStart(batchSize int, trigger Trigger)

	// RecordBatchComplete is called when the processor returns without error.
	RecordBatchComplete(batchSize int, duration time.Duration)

	// RecordJobProcessed is called per result with StatusProcessed.
	RecordJobProcessed()

	// RecordJobFailed is called per result with StatusFailed or StatusTimeout.
	RecordJobFailed()

	// RecordProcessorError is called when the processor fails a whole batch.
	RecordProcessorError()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about scheduler activity.
type Stats struct {
	// JobsAccepted is the total number of jobs accepted by Submit.
	JobsAccepted uint64

	// JobsProcessed is the total number of jobs with a processed result.
	JobsProcessed uint64

	// JobsFailed is the total number of jobs with a failed or timeout result.
	JobsFailed uint64

	// BatchesStarted is the total number of batches handed to the processor.
	BatchesStarted uint64

	// BatchesCompleted is the total number of batches the processor finished
	// without a batch-wide error.
	BatchesCompleted uint64

	// ProcessorErrors is the total number of batch-wide processor failures.
	ProcessorErrors uint64

	// FiredByTrigger counts batches by the trigger that fired them.
	FiredByTrigger map[Trigger]uint64

	// TotalProcessingTime is the cumulative time spent in the processor.
	TotalProcessingTime time.Duration

	// MinBatchTime is the shortest completed batch duration.
	MinBatchTime time.Duration

	// MaxBatchTime is the longest completed batch duration.
	MaxBatchTime time.Duration

	// MinBatchSize is the smallest batch handed to the processor.
	MinBatchSize int

	// MaxBatchSize is the largest batch handed to the processor.
	MaxBatchSize int

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector discards all metrics. It is the default collector.
type NoOpStatsCollector struct{}

// RecordJobAccepted implements the StatsCollector interface.
func (NoOpStatsCollector) RecordJobAccepted() {}

// RecordBatchStart implements the StatsCollector interface.
func (NoOpStatsCollector) RecordBatchStart(batchSize int, trigger Trigger) {}

// RecordBatchComplete implements the StatsCollector interface.
func (NoOpStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {}

// RecordJobProcessed implements the StatsCollector interface.
func (NoOpStatsCollector) RecordJobProcessed() {}

// RecordJobFailed implements the StatsCollector interface.
func (NoOpStatsCollector) RecordJobFailed() {}

// RecordProcessorError implements the StatsCollector interface.
func (NoOpStatsCollector) RecordProcessorError() {}

// GetStats implements the StatsCollector interface.
func (NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a thread-safe in-memory StatsCollector.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats
	byTrg map[Trigger]uint64

	jobsAccepted     uint64
	jobsProcessed    uint64
	jobsFailed       uint64
	batchesStarted   uint64
	batchesCompleted uint64
	processorErrors  uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      time.Now(),
			LastUpdateTime: time.Now(),
			MinBatchTime:   time.Duration(1<<63 - 1),
		},
		byTrg: make(map[Trigger]uint64),
	}
}

// RecordJobAccepted implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordJobAccepted() {
	atomic.AddUint64(&b.jobsAccepted, 1)
}

// RecordBatchStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchStart(batchSize int, trigger Trigger) {
	atomic.AddUint64(&b.batchesStarted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.byTrg[trigger]++

	if batchSize < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = batchSize
	}
	if batchSize > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = batchSize
	}
}

// RecordBatchComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	atomic.AddUint64(&b.batchesCompleted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalProcessingTime += duration

	if duration < b.stats.MinBatchTime {
		b.stats.MinBatchTime = duration
	}
	if duration > b.stats.MaxBatchTime {
		b.stats.MaxBatchTime = duration
	}
}

// RecordJobProcessed implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordJobProcessed() {
	atomic.AddUint64(&b.jobsProcessed, 1)
}

// RecordJobFailed implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordJobFailed() {
	atomic.AddUint64(&b.jobsFailed, 1)
}

// RecordProcessorError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordProcessorError() {
	atomic.AddUint64(&b.processorErrors, 1)
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.JobsAccepted = atomic.LoadUint64(&b.jobsAccepted)
	stats.JobsProcessed = atomic.LoadUint64(&b.jobsProcessed)
	stats.JobsFailed = atomic.LoadUint64(&b.jobsFailed)
	stats.BatchesStarted = atomic.LoadUint64(&b.batchesStarted)
	stats.BatchesCompleted = atomic.LoadUint64(&b.batchesCompleted)
	stats.ProcessorErrors = atomic.LoadUint64(&b.processorErrors)

	stats.FiredByTrigger = make(map[Trigger]uint64, len(b.byTrg))
	for trg, n := range b.byTrg {
		stats.FiredByTrigger[trg] = n
	}

	if stats.BatchesCompleted == 0 {
		stats.MinBatchTime = 0
	}

	return stats
}

// AverageBatchTime returns the average time the processor took per
// completed batch. Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchTime() time.Duration {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.BatchesCompleted)
}

// AverageBatchSize returns the average number of processed jobs per
// completed batch. Returns 0 if no batches have been completed.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return float64(s.JobsProcessed) / float64(s.BatchesCompleted)
}

// ErrorRate returns the percentage of jobs that failed.
// Returns 0 if no jobs have finished.
func (s *Stats) ErrorRate() float64 {
	total := s.JobsProcessed + s.JobsFailed
	if total == 0 {
		return 0
	}
	return float64(s.JobsFailed) / float64(total) * 100
}
