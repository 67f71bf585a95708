package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchline/batchline/pipeline"
	"github.com/batchline/batchline/scheduler"
)

func TestDoer_BatchesConcurrentCalls(t *testing.T) {
	var (
		mu      sync.Mutex
		batches [][]string
	)

	doer, err := pipeline.NewDoer(func(_ context.Context, elems []*pipeline.DoerElem[string, string]) error {
		inputs := make([]string, len(elems))
		for i, elem := range elems {
			inputs[i] = elem.Input
			elem.Output = strings.ToUpper(elem.Input)
		}

		mu.Lock()
		batches = append(batches, inputs)
		mu.Unlock()
		return nil
	}, &pipeline.DoerOptions{BatchSize: 3, BatchTimeout: time.Second})
	require.NoError(t, err)
	defer doer.Close(context.Background())

	var wg sync.WaitGroup
	outputs := make([]string, 3)
	for i, in := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			out, err := doer.Do(context.Background(), in)
			assert.NoError(t, err)
			outputs[i] = out
		}(i, in)
	}
	wg.Wait()

	assert.Equal(t, []string{"A", "B", "C"}, outputs)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
}

func TestDoer_TimeoutFlushesPartialBatch(t *testing.T) {
	doer, err := pipeline.NewDoer(func(_ context.Context, elems []*pipeline.DoerElem[int, int]) error {
		for _, elem := range elems {
			elem.Output = elem.Input * 2
		}
		return nil
	}, &pipeline.DoerOptions{BatchSize: 100, BatchTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer doer.Close(context.Background())

	out, err := doer.Do(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestDoer_BatchWideError(t *testing.T) {
	doerErr := errors.New("backend unavailable")
	doer, err := pipeline.NewDoer(func(_ context.Context, _ []*pipeline.DoerElem[string, string]) error {
		return doerErr
	}, &pipeline.DoerOptions{BatchSize: 1, BatchTimeout: time.Second})
	require.NoError(t, err)
	defer doer.Close(context.Background())

	_, err = doer.Do(context.Background(), "a")
	assert.ErrorIs(t, err, doerErr)
}

func TestDoer_PerElementError(t *testing.T) {
	elemErr := errors.New("bad input")
	doer, err := pipeline.NewDoer(func(_ context.Context, elems []*pipeline.DoerElem[string, string]) error {
		for _, elem := range elems {
			if elem.Input == "bad" {
				elem.SetError(elemErr)
				continue
			}
			elem.Output = "ok:" + elem.Input
		}
		return nil
	}, &pipeline.DoerOptions{BatchSize: 2, BatchTimeout: time.Second})
	require.NoError(t, err)
	defer doer.Close(context.Background())

	var wg sync.WaitGroup
	var goodOut string
	var goodErr, badErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		goodOut, goodErr = doer.Do(context.Background(), "good")
	}()
	go func() {
		defer wg.Done()
		_, badErr = doer.Do(context.Background(), "bad")
	}()
	wg.Wait()

	assert.NoError(t, goodErr)
	assert.Equal(t, "ok:good", goodOut)
	assert.ErrorIs(t, badErr, elemErr)
}

func TestDoer_CloseDrainsAndRejects(t *testing.T) {
	doer, err := pipeline.NewDoer(func(_ context.Context, elems []*pipeline.DoerElem[int, int]) error {
		for _, elem := range elems {
			elem.Output = elem.Input
		}
		return nil
	}, &pipeline.DoerOptions{BatchSize: 100, BatchTimeout: time.Hour})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var out int
	var doErr error
	go func() {
		defer wg.Done()
		out, doErr = doer.Do(context.Background(), 7)
	}()

	// Let the Do call land in the pending batch before draining.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, doer.Close(context.Background()))
	wg.Wait()

	require.NoError(t, doErr)
	assert.Equal(t, 7, out)

	_, err = doer.Do(context.Background(), 8)
	assert.ErrorIs(t, err, scheduler.ErrSchedulerShutDown)
}

func TestDoer_DoRespectsContext(t *testing.T) {
	doer, err := pipeline.NewDoer(func(_ context.Context, _ []*pipeline.DoerElem[int, int]) error {
		return nil
	}, &pipeline.DoerOptions{BatchSize: 100, BatchTimeout: time.Hour})
	require.NoError(t, err)
	defer doer.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = doer.Do(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRedisPipeline_RequiresClient(t *testing.T) {
	_, err := pipeline.NewRedisPipeline(nil, nil)
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := pipeline.DefaultDoerOptions()
	assert.Equal(t, 100, opts.BatchSize)
	assert.Equal(t, 50*time.Millisecond, opts.BatchTimeout)

	ropts := pipeline.DefaultRedisPipelineOptions()
	assert.Equal(t, 100, ropts.BatchSize)
	assert.Equal(t, 50*time.Millisecond, ropts.BatchTimeout)
	assert.Zero(t, ropts.TTL)
}
