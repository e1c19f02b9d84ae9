// Package resolver implements the resolution engine: it classifies
// request paths, synthesizes per-kind preview metadata from upstream
// data (or a rendered page), and caches successful results.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/metrics"
	"github.com/blumlaut/fxfurtrack/internal/preview"
	"github.com/blumlaut/fxfurtrack/internal/upstream"
)

// API is the structured upstream data source.
type API interface {
	Post(ctx context.Context, id string) (*upstream.PostView, error)
	User(ctx context.Context, username string) (*upstream.UserView, error)
	Album(ctx context.Context, username, albumID string) (*upstream.AlbumView, error)
	Index(ctx context.Context, expression string) (*upstream.IndexView, error)
}

// PageScraper renders a page in the shared headless browser and
// extracts its preview tags. Shutdown stops the browser; a later
// scrape starts it again.
type PageScraper interface {
	ScrapePreview(ctx context.Context, path string) (preview.Result, error)
	Shutdown()
}

// ErrNoData marks resolutions where upstream had no usable data for an
// otherwise well-formed path.
var ErrNoData = errors.New("resolver: no data")

// Messages surfaced to callers via error results.
const (
	msgInvalidURL = "Invalid URL"
	msgNoMetadata = "No metadata found"
)

// Engine orchestrates one resolution: cache lookup, classification,
// resolver dispatch, cache write. It fails closed; Resolve always
// returns a result, never panics or propagates errors.
type Engine struct {
	cache   preview.Cache
	api     API
	scraper PageScraper
	ttl     time.Duration
	logger  *zap.Logger
}

// NewEngine constructs an Engine. api may be nil for browser-only
// deployments, in which case scraper handles every kind.
func NewEngine(cache preview.Cache, api API, scraper PageScraper, ttl time.Duration, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Engine{
		cache:   cache,
		api:     api,
		scraper: scraper,
		ttl:     ttl,
		logger:  logger,
	}
}

// Resolve produces the preview result for a request path. Error results
// are never cached, so transient upstream failures are retried by later
// requests.
func (e *Engine) Resolve(ctx context.Context, rawURL string) preview.Result {
	path := preview.NormalizePath(rawURL)

	cached, hit, err := e.cache.Get(ctx, path)
	if err != nil {
		e.logger.Warn("cache read failed", zap.String("path", path), zap.Error(err))
	}
	metrics.ObserveCacheLookup(hit)
	if hit {
		return cached
	}

	target, err := preview.Classify(path)
	if err != nil {
		return preview.ErrorResult(msgInvalidURL)
	}
	kind := kindOf(target)

	res, err := e.resolveTarget(ctx, target, path)
	if err != nil {
		if !errors.Is(err, upstream.ErrNotFound) && !errors.Is(err, ErrNoData) {
			e.logger.Error("resolution failed",
				zap.String("path", path),
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
		metrics.ObserveResolution(kind, "error")
		return preview.ErrorResult(msgNoMetadata)
	}
	metrics.ObserveResolution(kind, "ok")

	if err := e.cache.Set(ctx, path, res, e.ttl); err != nil {
		// A failed cache write costs a future upstream call, not this job.
		e.logger.Warn("cache write failed", zap.String("path", path), zap.Error(err))
	}
	return res
}

// IdleShutdown releases the shared browser when the queue has drained.
func (e *Engine) IdleShutdown() {
	if e.scraper != nil {
		e.scraper.Shutdown()
	}
}

func (e *Engine) resolveTarget(ctx context.Context, target preview.Target, path string) (preview.Result, error) {
	if e.api == nil {
		return e.scrape(ctx, path)
	}
	switch t := target.(type) {
	case preview.PostTarget:
		return e.resolvePost(ctx, t)
	case preview.ProfileTarget:
		return e.resolveProfile(ctx, t, path)
	case preview.AlbumTarget:
		return e.resolveAlbum(ctx, t, path)
	case preview.TagIndexTarget:
		return e.resolveTagIndex(ctx, t, path)
	}
	return preview.Result{}, fmt.Errorf("no resolver for target %T", target)
}

func (e *Engine) scrape(ctx context.Context, path string) (preview.Result, error) {
	if e.scraper == nil {
		return preview.Result{}, errors.New("no resolution strategy configured")
	}
	res, err := e.scraper.ScrapePreview(ctx, path)
	if err != nil {
		metrics.ObserveBrowserRender("error")
		return preview.Result{}, fmt.Errorf("scrape %s: %w", path, err)
	}
	if !res.OK() {
		metrics.ObserveBrowserRender("empty")
		return preview.Result{}, fmt.Errorf("scrape %s: %w", path, ErrNoData)
	}
	metrics.ObserveBrowserRender("ok")
	return res, nil
}

func kindOf(target preview.Target) string {
	switch target.(type) {
	case preview.PostTarget:
		return "post"
	case preview.ProfileTarget:
		return "profile"
	case preview.AlbumTarget:
		return "album"
	case preview.TagIndexTarget:
		return "index"
	}
	return "unknown"
}
