package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/batchline/batchline/estimate"
)

// Scheduler accumulates individually submitted jobs and hands them to a
// BatchProcessor in groups, fired by whichever condition occurs first:
// the pending count reaching BatchSize, the debounce timeout elapsing
// with no new submissions, or (when enabled) the estimated memory
// footprint reaching MemoryLimitMB.
//
// To create a Scheduler, call New. The configuration cannot be changed
// after creation.
//
// At most one batch is in flight at a time. While a batch is being
// processed, new submissions are accepted and accumulate for the next
// batch; trigger evaluation resumes once the in-flight batch completes.
// There is no deadline on the processor call itself: a hung processor
// blocks subsequent batch fires but never blocks Submit.
//
// Batches fired by the size, memory or timeout triggers have no caller
// waiting on them. If the processor fails such a batch, the error is
// reported to the Logger and the batch's jobs are dropped. This is a
// deliberate at-most-once semantic; callers needing retries should
// wrap their processor (see the processor package).
type Scheduler[T any] struct {
	cfg       Config
	processor BatchProcessor[T]
	idGen     IDGenerator
	estimator Estimator[T]
	logger    Logger
	stats     StatsCollector

	mu          sync.Mutex
	pendingIDs  []string
	pendingJobs map[string]T
	finished    map[string]T
	memEstimate float64
	timer       *time.Timer
	timerGen    uint64
	processing  bool
	flightDone  chan struct{}
	shutDown    bool
}

// New creates a Scheduler that hands batches to processor. If cfg is
// nil, defaults are used; otherwise out-of-range values are clamped as
// documented on Config. New fails if processor is nil.
func New[T any](processor BatchProcessor[T], cfg *Config) (*Scheduler[T], error) {
	if processor == nil {
		return nil, ErrNilProcessor
	}

	var values Config
	if cfg != nil {
		values = *cfg
	}

	return &Scheduler[T]{
		cfg:         values.normalized(),
		processor:   processor,
		idGen:       UUIDGenerator{},
		estimator:   estimate.NewJSON[T](),
		logger:      NoOpLogger{},
		stats:       NoOpStatsCollector{},
		pendingJobs: make(map[string]T),
		finished:    make(map[string]T),
	}, nil
}

// WithLogger sets a custom logger. It must be called before the first
// Submit. If not set, no logging occurs.
func (s *Scheduler[T]) WithLogger(logger Logger) *Scheduler[T] {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithStats sets a custom stats collector. It must be called before the
// first Submit. If not set, no statistics are collected.
func (s *Scheduler[T]) WithStats(stats StatsCollector) *Scheduler[T] {
	if stats != nil {
		s.stats = stats
	}
	return s
}

// WithIDGenerator sets a custom identifier generator. It must be called
// before the first Submit. If not set, UUIDGenerator is used.
func (s *Scheduler[T]) WithIDGenerator(gen IDGenerator) *Scheduler[T] {
	if gen != nil {
		s.idGen = gen
	}
	return s
}

// WithEstimator sets a custom memory estimator. It must be called
// before the first Submit. If not set, estimate.JSON is used.
func (s *Scheduler[T]) WithEstimator(estimator Estimator[T]) *Scheduler[T] {
	if estimator != nil {
		s.estimator = estimator
	}
	return s
}

// Submit accepts a job into the pending set and evaluates the batch
// triggers. It returns ErrSchedulerShutDown after Shutdown or Stop has
// been called; the rejected job is not stored.
//
// When ReturnAck is configured, the returned Ack carries the generated
// job identifier with StatusSubmitted. The Ack only means the job was
// accepted, not that it was processed. Without ReturnAck the Ack is the
// zero value.
//
// The memory estimate is accumulated per submission: each job is
// estimated on its own and the results summed, which may deviate from a
// single estimate over the whole pending set.
func (s *Scheduler[T]) Submit(job T) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutDown {
		return Ack{}, ErrSchedulerShutDown
	}

	id := s.idGen.NewID()
	s.pendingIDs = append(s.pendingIDs, id)
	s.pendingJobs[id] = job

	mb, err := s.estimator.EstimateMB([]T{job})
	if err != nil {
		s.logger.Warn("memory estimate failed for job %s, counting as zero: %v", id, err)
		mb = 0
	}
	s.memEstimate += mb
	s.stats.RecordJobAccepted()

	s.evaluateTriggersLocked()

	if s.cfg.ReturnAck {
		return Ack{Status: StatusSubmitted, JobID: id}, nil
	}
	return Ack{}, nil
}

// evaluateTriggersLocked decides what to do after an accepted
// submission. An in-flight batch owns the trigger decision until it
// completes, so nothing happens while processing: jobs accumulate in
// the fresh pending set and the next submission re-evaluates.
func (s *Scheduler[T]) evaluateTriggersLocked() {
	if s.processing {
		return
	}

	switch {
	case len(s.pendingIDs) >= s.cfg.BatchSize:
		s.spawnFireLocked(TriggerSize)
	case s.cfg.AutoProcessOnMemoryLimit && s.memEstimate >= s.cfg.MemoryLimitMB:
		s.spawnFireLocked(TriggerMemory)
	default:
		s.armTimerLocked()
	}
}

// spawnFireLocked starts an unattended batch fire in the background.
func (s *Scheduler[T]) spawnFireLocked(trigger Trigger) {
	s.stopTimerLocked()
	go s.fireUnattended(trigger)
}

// fireUnattended fires a batch that no caller is waiting on. A
// processor failure here is reported to the logger and swallowed; the
// batch's jobs are not re-queued.
func (s *Scheduler[T]) fireUnattended(trigger Trigger) {
	if err := s.fire(context.Background(), trigger, false); err != nil {
		s.logger.Error("%s-triggered batch failed, jobs dropped: %v", trigger, err)
	}
}

// armTimerLocked cancels any outstanding debounce timer and arms a new
// one. Every accepted submission lands here unless a size or memory
// trigger fired first, so BatchTimeout measures inactivity rather than
// end-to-end latency.
func (s *Scheduler[T]) armTimerLocked() {
	s.stopTimerLocked()
	gen := s.timerGen
	s.timer = time.AfterFunc(s.cfg.BatchTimeout, func() {
		s.timerFired(gen)
	})
}

// stopTimerLocked cancels the outstanding timer, if any, and
// invalidates callbacks from timers that already fired.
func (s *Scheduler[T]) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

func (s *Scheduler[T]) timerFired(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.shutDown || s.processing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.fireUnattended(TriggerTimeout)
}

// fire snapshots the pending set and hands it to the processor.
//
// If a batch is already in flight, wait selects the behavior: awaited
// paths (ForceProcess, the Shutdown drain) wait for the in-flight batch
// and then fire whatever accumulated meanwhile, while unattended paths
// return immediately and leave the decision to the next submission.
//
// The snapshot swap and the processing-flag set happen under the mutex,
// so a submission arriving during processing lands in the fresh pending
// set: no job is ever lost or appears in two batches.
func (s *Scheduler[T]) fire(ctx context.Context, trigger Trigger, wait bool) error {
	s.mu.Lock()
	for s.processing {
		if !wait {
			s.mu.Unlock()
			return nil
		}
		done := s.flightDone
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}

	s.processing = true
	s.flightDone = make(chan struct{})
	s.stopTimerLocked()

	if len(s.pendingIDs) == 0 {
		s.memEstimate = 0
		s.finishFlightLocked()
		s.mu.Unlock()
		return nil
	}

	snapshot := make([]Job[T], len(s.pendingIDs))
	for i, id := range s.pendingIDs {
		snapshot[i] = Job[T]{ID: id, Payload: s.pendingJobs[id]}
	}
	byID := s.pendingJobs

	s.pendingIDs = nil
	s.pendingJobs = make(map[string]T)
	s.memEstimate = 0
	s.mu.Unlock()

	s.stats.RecordBatchStart(len(snapshot), trigger)
	s.logger.Debug("firing %s-triggered batch of %d job(s)", trigger, len(snapshot))

	start := time.Now()
	results, err := s.processor.ProcessBatch(ctx, snapshot)
	duration := time.Since(start)

	s.mu.Lock()
	if err == nil {
		for _, res := range results {
			payload, ok := byID[res.JobID]
			if !ok {
				s.logger.Warn("processor returned result for unknown job %s", res.JobID)
				continue
			}
			// Finished jobs keep the snapshot payload, not whatever the
			// processor put in the result.
			s.finished[res.JobID] = payload
			if res.Status == StatusProcessed {
				s.stats.RecordJobProcessed()
			} else {
				s.stats.RecordJobFailed()
			}
		}
	}
	s.finishFlightLocked()
	// Submissions accepted during the flight accumulated without
	// trigger evaluation; pick them up now.
	if !s.shutDown && len(s.pendingIDs) > 0 {
		s.evaluateTriggersLocked()
	}
	s.mu.Unlock()

	if err != nil {
		s.stats.RecordProcessorError()
		return ProcessorError{Err: err}
	}

	s.stats.RecordBatchComplete(len(snapshot), duration)
	s.logger.Debug("batch of %d job(s) completed in %v", len(snapshot), duration)
	return nil
}

func (s *Scheduler[T]) finishFlightLocked() {
	s.processing = false
	if s.flightDone != nil {
		close(s.flightDone)
		s.flightDone = nil
	}
}

// ForceProcess fires a batch immediately, regardless of the size,
// timeout and memory thresholds, and waits for it to complete. If a
// batch is already in flight it waits for that batch first. With
// nothing pending it is a safe no-op. A processor failure propagates
// to the caller as a ProcessorError.
func (s *Scheduler[T]) ForceProcess(ctx context.Context) error {
	return s.fire(ctx, TriggerForce, true)
}

// Shutdown stops accepting submissions and drains: if jobs are pending,
// one final batch is fired and awaited so every job accepted before the
// call is handed to the processor. Submit fails with
// ErrSchedulerShutDown from this point on. A processor failure during
// the drain propagates to the caller; the drained jobs are lost either
// way.
func (s *Scheduler[T]) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutDown = true
	s.stopTimerLocked()
	s.mu.Unlock()

	return s.fire(ctx, TriggerShutdown, true)
}

// Stop is a hard stop: it stops accepting submissions and discards all
// pending jobs without invoking the processor. Jobs recorded in the
// finished store remain readable.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutDown = true
	dropped := len(s.pendingIDs)
	s.pendingIDs = nil
	s.pendingJobs = make(map[string]T)
	s.memEstimate = 0
	s.stopTimerLocked()

	if dropped > 0 {
		s.logger.Warn("hard stop discarded %d pending job(s)", dropped)
	}
}

// JobCount returns the number of pending jobs. While a batch is in
// flight it returns 0, even though submissions accepted during
// processing may already be accumulating: the in-flight batch is
// opaque to callers. Use the stats collector for exact accounting.
func (s *Scheduler[T]) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return 0
	}
	return len(s.pendingIDs)
}

// JobStatus reports whether a job is waiting in the pending set. Jobs
// that have already been handed to the processor report StatusNotFound;
// use FinishedJob to check the finished store.
func (s *Scheduler[T]) JobStatus(jobID string) Ack {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pendingJobs[jobID]; ok {
		return Ack{Status: StatusSubmitted, JobID: jobID}
	}
	return Ack{Status: StatusNotFound, JobID: jobID}
}

// FinishedJob returns the payload recorded for a job whose batch has
// completed, and whether the job is in the finished store. The store
// accumulates for the lifetime of the scheduler.
func (s *Scheduler[T]) FinishedJob(jobID string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.finished[jobID]
	return payload, ok
}

// PendingMemoryEstimate returns the running footprint estimate, in
// megabytes, accumulated from per-submission estimates.
func (s *Scheduler[T]) PendingMemoryEstimate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memEstimate
}

// MemoryLimitReached recomputes the footprint estimate fresh over the
// current pending jobs, ignoring the cached running estimate, and
// compares it against MemoryLimitMB.
func (s *Scheduler[T]) MemoryLimitReached() (bool, error) {
	s.mu.Lock()
	payloads := make([]T, len(s.pendingIDs))
	for i, id := range s.pendingIDs {
		payloads[i] = s.pendingJobs[id]
	}
	limit := s.cfg.MemoryLimitMB
	s.mu.Unlock()

	mb, err := s.estimator.EstimateMB(payloads)
	if err != nil {
		return false, err
	}
	return mb >= limit, nil
}
