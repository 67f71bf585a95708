// Package pipeline provides synchronous facades over the scheduler.
//
// A pipeline presents a blocking, one-call-at-a-time API to the caller
// while submitting each call as a job underneath, so that concurrent
// callers are transparently batched into shared round trips. Callers
// never interact with batches directly.
//
// Current implementations:
//
//   - Doer: batches arbitrary function calls through a caller-supplied
//     DoerFunc.
//   - RedisPipeline: batches GET/SET/DEL/EXISTS calls into Redis
//     pipelines using go-redis.
package pipeline
