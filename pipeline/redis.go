package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/batchline/batchline/scheduler"
)

// RedisOperation represents the type of Redis operation to perform.
type RedisOperation string

const (
	// OpGet retrieves a value for a key.
	OpGet RedisOperation = "GET"
	// OpSet stores a key-value pair.
	OpSet RedisOperation = "SET"
	// OpDel deletes a key.
	OpDel RedisOperation = "DEL"
	// OpExists checks if a key exists.
	OpExists RedisOperation = "EXISTS"
)

// redisRequest represents one pending Redis operation.
type redisRequest struct {
	op     RedisOperation
	key    string
	value  interface{}
	respCh chan *redisResponse
}

// redisResponse is the outcome of one Redis operation.
type redisResponse struct {
	value interface{}
	err   error
}

// RedisPipelineOptions configures the batching behavior of a
// RedisPipeline.
type RedisPipelineOptions struct {
	// BatchSize is the operation count that triggers an immediate
	// round trip.
	BatchSize int

	// BatchTimeout is the inactivity debounce before a partial batch is
	// sent.
	BatchTimeout time.Duration

	// TTL is the expiration applied by Set. Zero means no expiration.
	TTL time.Duration
}

// DefaultRedisPipelineOptions returns sensible defaults for a
// RedisPipeline.
func DefaultRedisPipelineOptions() *RedisPipelineOptions {
	return &RedisPipelineOptions{
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// RedisPipeline provides a synchronous API for Redis operations while
// batching commands into Redis pipelines in the background: concurrent
// calls are grouped into a single round trip.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	p, err := pipeline.NewRedisPipeline(client, nil)
//	value, err := p.Get(ctx, "my-key")
type RedisPipeline struct {
	client redis.Cmdable
	ttl    time.Duration
	sched  *scheduler.Scheduler[*redisRequest]
}

// NewRedisPipeline creates a RedisPipeline on top of client. If
// options is nil, defaults are used.
func NewRedisPipeline(client redis.Cmdable, options *RedisPipelineOptions) (*RedisPipeline, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if options == nil {
		options = DefaultRedisPipelineOptions()
	}

	p := &RedisPipeline{
		client: client,
		ttl:    options.TTL,
	}

	sched, err := scheduler.New[*redisRequest](scheduler.ProcessorFunc[*redisRequest](p.processBatch), &scheduler.Config{
		BatchSize:    options.BatchSize,
		BatchTimeout: options.BatchTimeout,
	})
	if err != nil {
		return nil, err
	}

	p.sched = sched
	return p, nil
}

// processBatch executes all pending operations in one Redis pipeline
// round trip and delivers each response to its blocked caller.
func (p *RedisPipeline) processBatch(ctx context.Context, jobs []scheduler.Job[*redisRequest]) ([]scheduler.Result[*redisRequest], error) {
	pipe := p.client.Pipeline()

	cmds := make(map[string]redis.Cmder, len(jobs))
	for _, job := range jobs {
		req := job.Payload
		switch req.op {
		case OpGet:
			cmds[job.ID] = pipe.Get(ctx, req.key)
		case OpSet:
			cmds[job.ID] = pipe.Set(ctx, req.key, req.value, p.ttl)
		case OpDel:
			cmds[job.ID] = pipe.Del(ctx, req.key)
		case OpExists:
			cmds[job.ID] = pipe.Exists(ctx, req.key)
		}
	}

	// Exec returns the first command error, redis.Nil included.
	// Per-command errors are read individually below, so only keep
	// going; each caller gets its own command's outcome.
	_, _ = pipe.Exec(ctx)

	results := make([]scheduler.Result[*redisRequest], 0, len(jobs))
	for _, job := range jobs {
		req := job.Payload
		resp := &redisResponse{}

		switch cmd := cmds[job.ID].(type) {
		case *redis.StringCmd:
			resp.value, resp.err = cmd.Result()
		case *redis.StatusCmd:
			resp.value, resp.err = cmd.Result()
		case *redis.IntCmd:
			resp.value, resp.err = cmd.Result()
		default:
			resp.err = errors.New("unsupported operation: " + string(req.op))
		}

		status := scheduler.StatusProcessed
		if resp.err != nil {
			status = scheduler.StatusFailed
		}

		req.respCh <- resp
		results = append(results, scheduler.Result[*redisRequest]{
			Status: status,
			JobID:  job.ID,
			Result: req,
		})
	}

	return results, nil
}

// do submits one operation and blocks for its response.
func (p *RedisPipeline) do(ctx context.Context, req *redisRequest) (interface{}, error) {
	req.respCh = make(chan *redisResponse, 1)

	if _, err := p.sched.Submit(req); err != nil {
		return nil, err
	}

	select {
	case resp := <-req.respCh:
		return resp.value, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get retrieves the value for a key. A missing key reports redis.Nil,
// as with a direct client call.
func (p *RedisPipeline) Get(ctx context.Context, key string) (string, error) {
	value, err := p.do(ctx, &redisRequest{op: OpGet, key: key})
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", errors.New("invalid response type")
	}
	return s, nil
}

// Set stores a key-value pair.
func (p *RedisPipeline) Set(ctx context.Context, key string, value interface{}) error {
	_, err := p.do(ctx, &redisRequest{op: OpSet, key: key, value: value})
	return err
}

// Del deletes a key. It returns the number of keys removed.
func (p *RedisPipeline) Del(ctx context.Context, key string) (int64, error) {
	value, err := p.do(ctx, &redisRequest{op: OpDel, key: key})
	if err != nil {
		return 0, err
	}
	n, ok := value.(int64)
	if !ok {
		return 0, errors.New("invalid response type")
	}
	return n, nil
}

// Exists checks if a key exists.
func (p *RedisPipeline) Exists(ctx context.Context, key string) (bool, error) {
	value, err := p.do(ctx, &redisRequest{op: OpExists, key: key})
	if err != nil {
		return false, err
	}
	n, ok := value.(int64)
	if !ok {
		return false, errors.New("invalid response type")
	}
	return n > 0, nil
}

// Close flushes pending operations through one final round trip and
// stops accepting new calls.
func (p *RedisPipeline) Close(ctx context.Context) error {
	return p.sched.Shutdown(ctx)
}
