package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

func sampleResult() preview.Result {
	return preview.NewResult(preview.Content{
		Title:       "Fox (📸 @Jane)",
		Description: "#nature",
		Image:       "https://orca2.furtrack.com/gallery/1/12345-abc.jpg",
		Path:        "/p/12345",
		Card:        preview.CardSummaryLargeImage,
	})
}

func TestMemory_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory()
	want := sampleResult()

	_, ok, err := c.Get(ctx, "/p/12345")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "/p/12345", want, time.Hour))

	got, ok, err := c.Get(ctx, "/p/12345")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestMemory_ExpiryYieldsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "/p/1", sampleResult(), 24*time.Hour))

	now = now.Add(24*time.Hour + time.Second)
	_, ok, err := c.Get(ctx, "/p/1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_RoundTripAndTTL(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedis(client)
	ctx := context.Background()
	want := sampleResult()

	require.NoError(t, c.Set(ctx, "/p/12345", want, 24*time.Hour))

	got, ok, err := c.Get(ctx, "/p/12345")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	srv.FastForward(24*time.Hour + time.Second)

	_, ok, err = c.Get(ctx, "/p/12345")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_MissOnUnknownKey(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedis(client)

	_, ok, err := c.Get(context.Background(), "/user/nobody")
	require.NoError(t, err)
	require.False(t, ok)
}
