// Package memory provides a queue implementation for local development
// and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// Queue is a bounded in-memory preview.Queue with context-aware
// operations. Completion correlation is by job ID, so jobs may finish
// out of submission order.
type Queue struct {
	ch      chan preview.Job
	mu      sync.Mutex
	waiters map[string]chan preview.Result
	closed  bool
}

// New constructs a queue with the provided capacity.
func New(capacity int) *Queue {
	return &Queue{
		ch:      make(chan preview.Job, capacity),
		waiters: make(map[string]chan preview.Result),
	}
}

// Submit registers a completion waiter for the job, then enqueues it.
func (q *Queue) Submit(ctx context.Context, job preview.Job) (<-chan preview.Result, error) {
	ch := make(chan preview.Result, 1)
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, errors.New("queue closed")
	}
	q.waiters[job.ID] = ch
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		q.dropWaiter(job.ID)
		return nil, fmt.Errorf("submit canceled: %w", ctx.Err())
	case q.ch <- job:
		return ch, nil
	}
}

// Dequeue pops the next job, respecting context cancellation.
func (q *Queue) Dequeue(ctx context.Context) (preview.Job, error) {
	select {
	case <-ctx.Done():
		return preview.Job{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case job, ok := <-q.ch:
		if !ok {
			return preview.Job{}, errors.New("queue closed")
		}
		return job, nil
	}
}

// Complete delivers the result to the job's waiter, if still present.
// An abandoned job's result is dropped silently.
func (q *Queue) Complete(_ context.Context, job preview.Job, result preview.Result) error {
	q.mu.Lock()
	ch := q.waiters[job.ID]
	delete(q.waiters, job.ID)
	q.mu.Unlock()
	if ch != nil {
		ch <- result
	}
	return nil
}

// Pending returns the number of jobs waiting in the queue.
func (q *Queue) Pending(context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

// Close closes the underlying channel for shutdown.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}

func (q *Queue) dropWaiter(jobID string) {
	q.mu.Lock()
	delete(q.waiters, jobID)
	q.mu.Unlock()
}
