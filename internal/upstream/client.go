// Package upstream implements the authenticated client for the site's
// data API.
package upstream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/metrics"
)

// ErrNotFound marks upstream responses with a non-success status. The
// resolution engine treats it as "no data", never as a crash.
var ErrNotFound = errors.New("upstream: not found")

// Defaults for an unconfigured client.
const (
	DefaultBaseURL   = "https://solar.furtrack.com"
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0"
	siteOrigin       = "https://www.furtrack.com"
)

// Config controls the upstream client.
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// Client performs authenticated JSON calls against the data API. The
// transport negotiates modern TLS only and every request carries the
// fixed browser-like header set the API expects.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New constructs a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger: logger,
	}
}

// Post fetches a post and its tag list by id.
func (c *Client) Post(ctx context.Context, id string) (*PostView, error) {
	var view PostView
	if err := c.get(ctx, "/view/post/"+url.PathEscape(id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// User fetches a user by username.
func (c *Client) User(ctx context.Context, username string) (*UserView, error) {
	var view UserView
	if err := c.get(ctx, "/get/u/"+url.PathEscape(username), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Album fetches an album by username and album id.
func (c *Client) Album(ctx context.Context, username, albumID string) (*AlbumView, error) {
	var view AlbumView
	path := "/view/album/" + url.PathEscape(username) + "/" + url.PathEscape(albumID)
	if err := c.get(ctx, path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Index fetches the listing for a tag expression.
func (c *Client) Index(ctx context.Context, expression string) (*IndexView, error) {
	var view IndexView
	if err := c.get(ctx, "/get/index/"+url.PathEscape(expression), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", siteOrigin+"/")
	req.Header.Set("Origin", siteOrigin)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveUpstreamRequest(endpointLabel(path), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("upstream non-success",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: %s returned %d", ErrNotFound, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// endpointLabel collapses paths to their endpoint family to keep metric
// cardinality bounded.
func endpointLabel(path string) string {
	switch {
	case len(path) > 11 && path[:11] == "/view/post/":
		return "post"
	case len(path) > 7 && path[:7] == "/get/u/":
		return "user"
	case len(path) > 12 && path[:12] == "/view/album/":
		return "album"
	case len(path) > 11 && path[:11] == "/get/index/":
		return "index"
	}
	return "other"
}
