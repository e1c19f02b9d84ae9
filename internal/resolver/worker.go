package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/metrics"
	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// Worker consumes queue jobs and runs them through the engine. Multiple
// workers (in one or many processes) may share a queue; each job is
// processed exactly once.
type Worker struct {
	queue  preview.Queue
	engine *Engine
	logger *zap.Logger
}

// NewWorker constructs a Worker.
func NewWorker(queue preview.Queue, engine *Engine, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{queue: queue, engine: engine, logger: logger}
}

// Run blocks, consuming jobs until the context finishes.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("queue dequeue failed", zap.Error(err))
			continue
		}
		w.processJob(ctx, job)
		w.maybeIdleShutdown(ctx)
	}
}

func (w *Worker) processJob(ctx context.Context, job preview.Job) {
	res := w.resolveSafely(ctx, job)
	if err := w.queue.Complete(ctx, job, res); err != nil {
		w.logger.Error("job completion failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	metrics.ObserveJob(res.Status)
	w.logger.Debug("job processed",
		zap.String("job_id", job.ID),
		zap.String("url", job.URL),
		zap.String("status", res.Status),
	)
}

// resolveSafely converts any failure, including a panic, into an error
// result; one bad job must never take the engine process down.
func (w *Worker) resolveSafely(ctx context.Context, job preview.Job) (res preview.Result) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("job panicked", zap.String("job_id", job.ID), zap.Any("panic", r))
			res = preview.ErrorResult(msgNoMetadata)
		}
	}()
	return w.engine.Resolve(ctx, job.URL)
}

// maybeIdleShutdown releases the shared browser once the queue drains,
// trading warm-start latency for idle resource cost.
func (w *Worker) maybeIdleShutdown(ctx context.Context) {
	pending, err := w.queue.Pending(ctx)
	if err != nil {
		w.logger.Warn("queue depth check failed", zap.Error(err))
		return
	}
	if pending == 0 {
		w.engine.IdleShutdown()
	}
}
