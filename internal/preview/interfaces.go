package preview

import (
	"context"
	"time"
)

// Cache stores serialized results keyed by normalized request path.
// Writes are whole-entry overwrites; entries expire after their TTL.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, value Result, ttl time.Duration) error
}

// Queue decouples the dispatcher from resolution engine instances.
//
// Submit enqueues a job and returns a channel that receives the job's
// result exactly once; the subscription is established before the job is
// visible to workers so a fast completion cannot be missed. The channel
// is abandoned, not closed, when the submit context ends.
type Queue interface {
	Submit(ctx context.Context, job Job) (<-chan Result, error)
	Dequeue(ctx context.Context) (Job, error)
	Complete(ctx context.Context, job Job, result Result) error
	Pending(ctx context.Context) (int64, error)
}
