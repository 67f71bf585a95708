package processor_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchline/batchline/processor"
	"github.com/batchline/batchline/scheduler"
)

func jobs(payloads ...string) []scheduler.Job[string] {
	out := make([]scheduler.Job[string], len(payloads))
	for i, p := range payloads {
		out[i] = scheduler.Job[string]{ID: fmt.Sprintf("job-%d", i), Payload: p}
	}
	return out
}

func TestNil(t *testing.T) {
	proc := processor.Nil[string](0)

	results, err := proc.ProcessBatch(context.Background(), jobs("a", "b"))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, res := range results {
		assert.Equal(t, scheduler.StatusProcessed, res.Status)
		assert.Equal(t, fmt.Sprintf("job-%d", i), res.JobID)
	}
}

func TestNil_ContextCancelled(t *testing.T) {
	proc := processor.Nil[string](time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := proc.ProcessBatch(ctx, jobs("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestError(t *testing.T) {
	procErr := errors.New("boom")
	proc := processor.Error[string](procErr)

	_, err := proc.ProcessBatch(context.Background(), jobs("a"))
	assert.ErrorIs(t, err, procErr)
}

func TestCollector(t *testing.T) {
	coll := &processor.Collector[string]{}

	_, err := coll.ProcessBatch(context.Background(), jobs("a", "b"))
	require.NoError(t, err)
	_, err = coll.ProcessBatch(context.Background(), jobs("c"))
	require.NoError(t, err)

	assert.Equal(t, 3, coll.Count())

	batches := coll.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)

	all := coll.Jobs()
	got := make([]string, len(all))
	for i, job := range all {
		got[i] = job.Payload
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	coll.Reset()
	assert.Zero(t, coll.Count())
}

func TestCollector_Concurrent(t *testing.T) {
	coll := &processor.Collector[string]{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = coll.ProcessBatch(context.Background(), jobs("x"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, coll.Count())
}

func TestLogging(t *testing.T) {
	t.Run("delegates without a logger", func(t *testing.T) {
		coll := &processor.Collector[string]{}
		wrapped := processor.WrapWithLogging[string](coll, nil, "test")

		results, err := wrapped.ProcessBatch(context.Background(), jobs("a"))
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, 1, coll.Count())
	})

	t.Run("nil processor is a no-op", func(t *testing.T) {
		wrapped := &processor.Logging[string]{}

		results, err := wrapped.ProcessBatch(context.Background(), jobs("a"))
		require.NoError(t, err)
		assert.Nil(t, results)
	})

	t.Run("passes through failures", func(t *testing.T) {
		procErr := errors.New("boom")
		wrapped := processor.WrapWithLogging[string](processor.Error[string](procErr), scheduler.NoOpLogger{}, "failing")

		_, err := wrapped.ProcessBatch(context.Background(), jobs("a"))
		assert.ErrorIs(t, err, procErr)
	})
}

// flakyProcessor fails a fixed number of times before succeeding.
type flakyProcessor struct {
	mu        sync.Mutex
	failures  int
	callCount int
}

func (p *flakyProcessor) ProcessBatch(_ context.Context, in []scheduler.Job[string]) ([]scheduler.Result[string], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.callCount++
	if p.callCount <= p.failures {
		return nil, errors.New("transient failure")
	}

	results := make([]scheduler.Result[string], len(in))
	for i, job := range in {
		results[i] = scheduler.Result[string]{Status: scheduler.StatusProcessed, JobID: job.ID}
	}
	return results, nil
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		flaky := &flakyProcessor{failures: 2}
		retry := &processor.Retry[string]{Processor: flaky, Attempts: 3}

		results, err := retry.ProcessBatch(context.Background(), jobs("a"))
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, 3, flaky.callCount)
	})

	t.Run("gives up after attempts are exhausted", func(t *testing.T) {
		flaky := &flakyProcessor{failures: 5}
		retry := &processor.Retry[string]{Processor: flaky, Attempts: 3}

		_, err := retry.ProcessBatch(context.Background(), jobs("a"))
		assert.Error(t, err)
		assert.Equal(t, 3, flaky.callCount)
	})

	t.Run("attempts below one behave as one", func(t *testing.T) {
		flaky := &flakyProcessor{}
		retry := &processor.Retry[string]{Processor: flaky}

		_, err := retry.ProcessBatch(context.Background(), jobs("a"))
		require.NoError(t, err)
		assert.Equal(t, 1, flaky.callCount)
	})

	t.Run("backoff respects context", func(t *testing.T) {
		flaky := &flakyProcessor{failures: 10}
		retry := &processor.Retry[string]{Processor: flaky, Attempts: 5, Backoff: time.Minute}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := retry.ProcessBatch(ctx, jobs("a"))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
