package rod_fetcher

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/adapter/htmldoc"
	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

// RodFetcher renders pages through go-rod with stealth patches applied to
// every page, for sites that block plain headless Chrome.
type RodFetcher struct {
	browser *rod.Browser
	slots   chan struct{}
	timeout time.Duration
	logger  *zap.Logger
}

// NewRodFetcher launches a headless browser and connects to it.
func NewRodFetcher(maxConcurrency int, pageLoadTimeout time.Duration, logger *zap.Logger) (*RodFetcher, error) {
	if maxConcurrency <= 0 {
		return nil, eris.Errorf("max concurrency must be positive, got %d", maxConcurrency)
	}
	controlURL, err := launcher.New().Headless(true).NoSandbox(true).Launch()
	if err != nil {
		return nil, eris.Wrap(err, "launch browser")
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, eris.Wrap(err, "connect to browser")
	}
	return &RodFetcher{
		browser: browser,
		slots:   make(chan struct{}, maxConcurrency),
		timeout: pageLoadTimeout,
		logger:  logger,
	}, nil
}

// Fetch opens url in a fresh stealth page and returns the rendered document.
func (r *RodFetcher) Fetch(ctx context.Context, url string) (*entity.FetchResult, error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "wait for a browser page to fetch %s", url)
	}
	defer func() { <-r.slots }()

	page, err := stealth.Page(r.browser)
	if err != nil {
		return nil, eris.Wrap(err, "create stealth page")
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(r.timeout)
	defer p.CancelTimeout()

	var status atomic.Int64
	go p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.Response == nil {
			return false
		}
		code := int64(e.Response.Status)
		if code >= 300 && code < 400 {
			return false
		}
		status.CompareAndSwap(0, code)
		return true
	})()

	startTime := time.Now()
	var rawHTML string
	err = p.Navigate(url)
	if err == nil {
		err = p.WaitLoad()
	}
	if err == nil {
		rawHTML, err = p.HTML()
	}
	responseTime := time.Since(startTime)
	if err != nil {
		r.logger.Error("failed to fetch URL", zap.String("url", url), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, eris.Wrapf(repository.ErrFetchTimeout, "fetch %s", url)
		}
		return nil, eris.Wrapf(repository.ErrNavigationFailed, "fetch %s: %v", url, err)
	}
	if err := htmldoc.CheckStatus(url, int(status.Load())); err != nil {
		return nil, err
	}

	doc, err := htmldoc.Parse(url, rawHTML)
	if err != nil {
		return nil, eris.Wrapf(repository.ErrNavigationFailed, "parse %s: %v", url, err)
	}
	res := &entity.FetchResult{
		URL:            url,
		RawHTML:        rawHTML,
		FetchedAt:      time.Now(),
		ResponseTimeMS: int(responseTime.Milliseconds()),
		Metadata:       entity.PageMetadata{StatusCode: int(status.Load())},
	}
	doc.Apply(res)

	r.logger.Info("fetched URL with rod",
		zap.String("url", url),
		zap.Int("status", res.Metadata.StatusCode),
		zap.Duration("response_time", responseTime),
	)
	return res, nil
}

// Close shuts the browser down.
func (r *RodFetcher) Close() error {
	return r.browser.Close()
}
