package scheduler

import (
	"fmt"
	"time"
)

// Default and limit values applied by Config.normalized.
const (
	// DefaultBatchSize is the batch size used when none is configured.
	DefaultBatchSize = 10

	// MaxBatchSize is the hard upper bound on BatchSize.
	MaxBatchSize = 1000

	// DefaultBatchTimeout is the debounce timeout used when none is
	// configured.
	DefaultBatchTimeout = time.Second

	// MaxBatchTimeout is the hard upper bound on BatchTimeout.
	MaxBatchTimeout = 100 * time.Second

	// DefaultMemoryLimitMB is the memory threshold used when none is
	// configured.
	DefaultMemoryLimitMB = 10

	// MaxMemoryLimitMB is the hard upper bound on MemoryLimitMB.
	MaxMemoryLimitMB = 1024
)

// Config contains the values that control when the scheduler fires a
// batch. The zero value is usable; New applies defaults and clamps
// out-of-range values, and the config cannot be changed afterwards.
type Config struct {
	// BatchSize is the number of pending jobs that triggers an immediate
	// batch. Values are clamped to [1, MaxBatchSize]. Zero means
	// DefaultBatchSize.
	BatchSize int

	// BatchTimeout is the inactivity debounce: the timer restarts on
	// every accepted submission and fires only after this much time
	// passes with no new submissions. A steady stream of submissions
	// arriving faster than the timeout delays processing until the size
	// or memory trigger intervenes. Values above MaxBatchTimeout are
	// clamped down. Zero means DefaultBatchTimeout.
	BatchTimeout time.Duration

	// MemoryLimitMB is the estimated-footprint threshold, in megabytes,
	// at which a batch fires when AutoProcessOnMemoryLimit is set.
	// Values are clamped to (0, MaxMemoryLimitMB]. Zero means
	// DefaultMemoryLimitMB.
	MemoryLimitMB float64

	// AutoProcessOnMemoryLimit enables the memory trigger.
	AutoProcessOnMemoryLimit bool

	// ReturnAck makes Submit return a populated Ack for accepted jobs.
	// The Ack only means the job entered the pending set, not that it
	// was processed.
	ReturnAck bool
}

// Validate reports whether every configured value is already inside
// its documented range. New never fails on out-of-range values, it
// clamps them; Validate is for callers who would rather reject a bad
// configuration than have it silently adjusted.
func (c Config) Validate() error {
	if c.BatchSize < 0 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size %d outside [0, %d]", c.BatchSize, MaxBatchSize)
	}
	if c.BatchTimeout < 0 || c.BatchTimeout > MaxBatchTimeout {
		return fmt.Errorf("batch timeout %v outside [0, %v]", c.BatchTimeout, MaxBatchTimeout)
	}
	if c.MemoryLimitMB < 0 || c.MemoryLimitMB > MaxMemoryLimitMB {
		return fmt.Errorf("memory limit %vMB outside [0, %dMB]", c.MemoryLimitMB, MaxMemoryLimitMB)
	}
	return nil
}

// normalized returns a copy of c with defaults applied and all values
// clamped into their documented ranges.
func (c Config) normalized() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchSize > MaxBatchSize {
		c.BatchSize = MaxBatchSize
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
	if c.BatchTimeout > MaxBatchTimeout {
		c.BatchTimeout = MaxBatchTimeout
	}
	if c.MemoryLimitMB <= 0 {
		c.MemoryLimitMB = DefaultMemoryLimitMB
	}
	if c.MemoryLimitMB > MaxMemoryLimitMB {
		c.MemoryLimitMB = MaxMemoryLimitMB
	}
	return c
}
