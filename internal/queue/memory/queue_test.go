package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

func TestQueue_SubmitDequeueComplete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := New(4)
	job := preview.Job{ID: "job-1", URL: "/p/123"}

	ch, err := q.Submit(ctx, job)
	require.NoError(t, err)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, job, got)

	want := preview.ErrorResult("No metadata found")
	require.NoError(t, q.Complete(ctx, got, want))

	select {
	case res := <-ch:
		require.Equal(t, want, res)
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}
}

func TestQueue_CompletionCorrelatesByJobID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := New(4)

	chA, err := q.Submit(ctx, preview.Job{ID: "job-a", URL: "/p/1"})
	require.NoError(t, err)
	chB, err := q.Submit(ctx, preview.Job{ID: "job-b", URL: "/p/2"})
	require.NoError(t, err)

	jobA, err := q.Dequeue(ctx)
	require.NoError(t, err)
	jobB, err := q.Dequeue(ctx)
	require.NoError(t, err)

	// Complete out of submission order.
	resB := preview.NewResult(preview.Content{Title: "b", Path: "/p/2"})
	resA := preview.NewResult(preview.Content{Title: "a", Path: "/p/1"})
	require.NoError(t, q.Complete(ctx, jobB, resB))
	require.NoError(t, q.Complete(ctx, jobA, resA))

	require.Equal(t, resA, <-chA)
	require.Equal(t, resB, <-chB)
}

func TestQueue_Pending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := New(4)

	n, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = q.Submit(ctx, preview.Job{ID: "job-1", URL: "/p/1"})
	require.NoError(t, err)

	n, err = q.Pending(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestQueue_DequeueRespectsCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	q := New(1)

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not observe cancellation")
	}
}
