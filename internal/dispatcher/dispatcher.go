// Package dispatcher submits preview jobs and waits for their results.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// ErrAwaitTimeout is returned when no resolver answers a job in time. The job
// itself stays queued; a later worker may still complete it.
var ErrAwaitTimeout = errors.New("timed out waiting for preview result")

const defaultAwaitTimeout = 30 * time.Second

// Dispatcher is the front-door half of the pipeline. It enqueues one job per
// request and blocks the caller until the result arrives or the wait expires.
type Dispatcher struct {
	queue   preview.Queue
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Dispatcher.
func New(queue preview.Queue, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultAwaitTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		queue:   queue,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch enqueues a job for url and waits for its result.
func (d *Dispatcher) Dispatch(ctx context.Context, url string) (preview.Result, error) {
	start := time.Now()
	job := preview.Job{
		ID:        uuid.NewString(),
		URL:       url,
		Submitted: start.Unix(),
	}

	waitCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results, err := d.queue.Submit(waitCtx, job)
	if err != nil {
		return preview.Result{}, fmt.Errorf("submit job %s: %w", job.ID, err)
	}

	select {
	case res, ok := <-results:
		if !ok {
			return preview.Result{}, ErrAwaitTimeout
		}
		d.logger.Debug("job completed",
			zap.String("job_id", job.ID),
			zap.String("url", url),
			zap.Duration("wait", time.Since(start)),
		)
		return res, nil
	case <-waitCtx.Done():
		d.logger.Warn("gave up waiting for job",
			zap.String("job_id", job.ID),
			zap.String("url", url),
		)
		return preview.Result{}, ErrAwaitTimeout
	}
}
