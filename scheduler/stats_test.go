package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/batchline/batchline/scheduler"
)

func TestBasicStatsCollector(t *testing.T) {
	c := scheduler.NewBasicStatsCollector()

	c.RecordJobAccepted()
	c.RecordJobAccepted()
	c.RecordBatchStart(2, scheduler.TriggerSize)
	c.RecordBatchComplete(2, 10*time.Millisecond)
	c.RecordJobProcessed()
	c.RecordJobFailed()

	c.RecordBatchStart(5, scheduler.TriggerTimeout)
	c.RecordBatchComplete(5, 30*time.Millisecond)

	stats := c.GetStats()
	assert.Equal(t, uint64(2), stats.JobsAccepted)
	assert.Equal(t, uint64(1), stats.JobsProcessed)
	assert.Equal(t, uint64(1), stats.JobsFailed)
	assert.Equal(t, uint64(2), stats.BatchesStarted)
	assert.Equal(t, uint64(2), stats.BatchesCompleted)
	assert.Equal(t, uint64(1), stats.FiredByTrigger[scheduler.TriggerSize])
	assert.Equal(t, uint64(1), stats.FiredByTrigger[scheduler.TriggerTimeout])
	assert.Equal(t, 2, stats.MinBatchSize)
	assert.Equal(t, 5, stats.MaxBatchSize)
	assert.Equal(t, 10*time.Millisecond, stats.MinBatchTime)
	assert.Equal(t, 30*time.Millisecond, stats.MaxBatchTime)
	assert.Equal(t, 20*time.Millisecond, stats.AverageBatchTime())
	assert.InDelta(t, 50.0, stats.ErrorRate(), 1e-9)
}

func TestBasicStatsCollector_Empty(t *testing.T) {
	c := scheduler.NewBasicStatsCollector()

	stats := c.GetStats()
	assert.Zero(t, stats.MinBatchTime)
	assert.Zero(t, stats.AverageBatchTime())
	assert.Zero(t, stats.AverageBatchSize())
	assert.Zero(t, stats.ErrorRate())
}

func TestNoOpStatsCollector(t *testing.T) {
	c := scheduler.NoOpStatsCollector{}

	c.RecordJobAccepted()
	c.RecordBatchStart(1, scheduler.TriggerSize)
	c.RecordBatchComplete(1, time.Millisecond)

	assert.Equal(t, scheduler.Stats{}, c.GetStats())
}
