// Package browser renders Furtrack pages with headless Chrome and reads
// the preview metadata the site injects client side.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// Config controls the behavior of the headless scraper.
type Config struct {
	UserAgent    string
	NavTimeout   time.Duration
	ReadyTimeout time.Duration
}

const (
	defaultNavTimeout   = 30 * time.Second
	defaultReadyTimeout = 5 * time.Second

	// readySelector appears once the site has populated its preview tags.
	readySelector = `meta[name="twitter:image"]`
)

// Scraper runs a single shared browser process. The process starts lazily on
// the first scrape and can be stopped with Shutdown once the queue drains; a
// later scrape starts a fresh one.
type Scraper struct {
	cfg    Config
	logger *zap.Logger

	mu          sync.Mutex
	started     bool
	allocCancel context.CancelFunc
	browserCtx  context.Context
	ctxCancel   context.CancelFunc
}

// New creates a scraper. The browser is not launched until needed.
func New(cfg Config, logger *zap.Logger) *Scraper {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = defaultNavTimeout
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{cfg: cfg, logger: logger}
}

func (s *Scraper) browser() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Launch the process now so a broken Chrome install fails loudly here
	// instead of inside the first job.
	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.ctxCancel = ctxCancel
	s.started = true
	s.logger.Info("browser started")
	return browserCtx, nil
}

// Shutdown stops the browser process if one is running.
func (s *Scraper) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.ctxCancel()
	s.allocCancel()
	s.started = false
	s.browserCtx = nil
	s.logger.Info("browser stopped")
}

// ScrapePreview opens the page for path in a fresh tab and extracts its
// preview metadata from the rendered DOM.
func (s *Scraper) ScrapePreview(ctx context.Context, path string) (preview.Result, error) {
	browserCtx, err := s.browser()
	if err != nil {
		return preview.Result{}, err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	navCtx, navCancel := context.WithTimeout(tabCtx, s.cfg.NavTimeout)
	defer navCancel()

	s.blockHeavyResources(tabCtx)

	pageURL := preview.SiteBaseURL + path
	actions := []chromedp.Action{
		fetch.Enable(),
		s.userAgentAction(),
		chromedp.Navigate(pageURL),
	}
	if err := chromedp.Run(navCtx, actions...); err != nil {
		return preview.Result{}, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	// The site fills in the tags asynchronously. If they never show up the
	// page has nothing to preview.
	readyCtx, readyCancel := context.WithTimeout(tabCtx, s.cfg.ReadyTimeout)
	defer readyCancel()
	if err := chromedp.Run(readyCtx, chromedp.WaitReady(readySelector, chromedp.ByQuery)); err != nil {
		return preview.Result{}, fmt.Errorf("wait for metadata on %s: %w", pageURL, err)
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return preview.Result{}, fmt.Errorf("read dom: %w", err)
	}

	return parsePreview(html, path)
}

func (s *Scraper) userAgentAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if s.cfg.UserAgent == "" {
			return nil
		}
		return emulation.SetUserAgentOverride(s.cfg.UserAgent).Do(ctx)
	})
}

// blockHeavyResources fails image, stylesheet, font, and media requests so a
// scrape only pays for the document and its scripts.
func (s *Scraper) blockHeavyResources(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev any) {
		req, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			execCtx := cdp.WithExecutor(tabCtx, chromedp.FromContext(tabCtx).Target)
			switch req.ResourceType {
			case network.ResourceTypeImage, network.ResourceTypeStylesheet,
				network.ResourceTypeFont, network.ResourceTypeMedia:
				_ = fetch.FailRequest(req.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			default:
				_ = fetch.ContinueRequest(req.RequestID).Do(execCtx)
			}
		}()
	})
}
