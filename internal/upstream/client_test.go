package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_SendsRequiredHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"post":{"postId":1,"submitUserId":2},"tags":[]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "secret"}, zap.NewNop())
	_, err := c.Post(context.Background(), "1")
	require.NoError(t, err)

	require.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	require.Equal(t, "application/json, text/plain, */*", got.Get("Accept"))
	require.Equal(t, "https://www.furtrack.com", got.Get("Origin"))
	require.Equal(t, "https://www.furtrack.com/", got.Get("Referer"))
	require.Equal(t, "Bearer secret", got.Get("Authorization"))
}

func TestClient_NoAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"user":{"username":"alice"}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, zap.NewNop())
	_, err := c.User(context.Background(), "alice")
	require.NoError(t, err)
	require.Empty(t, got.Get("Authorization"))
}

func TestClient_NonSuccessMapsToNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, zap.NewNop())

	_, err := c.Post(context.Background(), "999")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Album(context.Background(), "alice", "42")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_DecodesTypedViews(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/view/post/12345":
			_, _ = w.Write([]byte(`{
				"post":{"submitUserId":1,"postId":12345,"metaFingerprint":"abc","metaFiletype":"jpg","metaWidth":800,"metaHeight":600},
				"tags":[{"tagName":"1:fox"},{"tagName":"3:Jane"},{"tagName":"nature"}]
			}`))
		case "/get/index/fox":
			_, _ = w.Write([]byte(`{"tag":{"tagName":"fox","tagDisplay":"Fox"},"posts":[{"postId":5,"postScore":9.5}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, zap.NewNop())

	post, err := c.Post(context.Background(), "12345")
	require.NoError(t, err)
	require.NotNil(t, post.Post)
	require.EqualValues(t, 12345, post.Post.PostID)
	require.Equal(t, "abc", post.Post.MetaFingerprint)
	require.Len(t, post.Tags, 3)

	index, err := c.Index(context.Background(), "fox")
	require.NoError(t, err)
	require.NotNil(t, index.Tag)
	require.Equal(t, "Fox", index.Tag.TagDisplay)
	require.Len(t, index.Posts, 1)
	require.InDelta(t, 9.5, index.Posts[0].PostScore, 0.001)
}
