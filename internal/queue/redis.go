// Package queue implements the shared-store job queue linking the
// dispatcher to resolution engine instances.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// resultRetention keeps completed results readable briefly so a
// subscriber racing the completion still finds them.
const resultRetention = time.Minute

// dequeueBlock bounds each blocking pop so shutdown is timely.
const dequeueBlock = 5 * time.Second

// Redis is a preview.Queue backed by a Redis list plus pub/sub
// completion delivery. Multiple engine instances may consume the same
// queue; each job is delivered to exactly one of them.
type Redis struct {
	client *redis.Client
	name   string
}

// NewRedis constructs a queue named name over an existing client.
func NewRedis(client *redis.Client, name string) *Redis {
	return &Redis{client: client, name: name}
}

func (q *Redis) listKey() string {
	return q.name + ":jobs"
}

func (q *Redis) doneChannel(jobID string) string {
	return q.name + ":done:" + jobID
}

func (q *Redis) resultKey(jobID string) string {
	return q.name + ":result:" + jobID
}

// Submit subscribes to the job's completion channel, then enqueues the
// job. Subscribing first guarantees a completion published immediately
// after the push is not missed.
func (q *Redis) Submit(ctx context.Context, job preview.Job) (<-chan preview.Result, error) {
	sub := q.client.Subscribe(ctx, q.doneChannel(job.ID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe completion %q: %w", job.ID, err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("encode job %q: %w", job.ID, err)
	}
	if err := q.client.LPush(ctx, q.listKey(), payload).Err(); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("enqueue job %q: %w", job.ID, err)
	}

	ch := make(chan preview.Result, 1)
	go func() {
		defer func() { _ = sub.Close() }()

		// A worker may have completed between our subscribe confirmation
		// and this point on a reconnect; the retained result key covers it.
		if data, err := q.client.Get(ctx, q.resultKey(job.ID)).Bytes(); err == nil {
			if res, ok := decodeResult(data); ok {
				ch <- res
				return
			}
		}

		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			// Context ended; the dispatcher abandons the job.
			return
		}
		if res, ok := decodeResult([]byte(msg.Payload)); ok {
			ch <- res
		}
	}()
	return ch, nil
}

// Dequeue pops the next job, blocking until one is available or the
// context ends.
func (q *Redis) Dequeue(ctx context.Context) (preview.Job, error) {
	for {
		vals, err := q.client.BRPop(ctx, dequeueBlock, q.listKey()).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return preview.Job{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return preview.Job{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
			}
			return preview.Job{}, fmt.Errorf("dequeue: %w", err)
		}
		var job preview.Job
		if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
			return preview.Job{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

// Complete publishes the job's result and retains it briefly for
// subscribe races.
func (q *Redis) Complete(ctx context.Context, job preview.Job, result preview.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %q: %w", job.ID, err)
	}
	pipe := q.client.TxPipeline()
	pipe.Set(ctx, q.resultKey(job.ID), payload, resultRetention)
	pipe.Publish(ctx, q.doneChannel(job.ID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("complete job %q: %w", job.ID, err)
	}
	return nil
}

// Pending returns the number of jobs waiting in the queue.
func (q *Redis) Pending(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.listKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return n, nil
}

func decodeResult(data []byte) (preview.Result, bool) {
	var res preview.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return preview.Result{}, false
	}
	return res, true
}
