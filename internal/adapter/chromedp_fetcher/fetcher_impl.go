package chromedp_fetcher

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/adapter/htmldoc"
	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36`

type allocator struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// ChromedpFetcher renders pages in headless Chrome. At most maxConcurrency
// pages are loaded at once, each on its own allocator.
type ChromedpFetcher struct {
	allocators chan allocator
	timeout    time.Duration
	logger     *zap.Logger
}

// NewChromedpFetcher creates a new fetcher implementation using chromedp.
func NewChromedpFetcher(maxConcurrency int, pageLoadTimeout time.Duration, logger *zap.Logger) (*ChromedpFetcher, error) {
	if maxConcurrency <= 0 {
		return nil, eris.Errorf("max concurrency must be positive, got %d", maxConcurrency)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocators := make(chan allocator, maxConcurrency)
	for i := 0; i < maxConcurrency; i++ {
		ctx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
		allocators <- allocator{ctx: ctx, cancel: cancel}
	}

	return &ChromedpFetcher{
		allocators: allocators,
		timeout:    pageLoadTimeout,
		logger:     logger,
	}, nil
}

// Fetch loads url, waits for the body and returns the rendered document.
func (c *ChromedpFetcher) Fetch(ctx context.Context, url string) (*entity.FetchResult, error) {
	var alloc allocator
	select {
	case alloc = <-c.allocators:
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "wait for a browser to fetch %s", url)
	}
	defer func() { c.allocators <- alloc }()

	taskCtx, cancel := chromedp.NewContext(alloc.ctx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var status atomic.Int64
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
			return
		}
		// Redirect hops are reported before the final document.
		if code := resp.Response.Status; code < 300 || code >= 400 {
			status.CompareAndSwap(0, code)
		}
	})

	var rawHTML string
	startTime := time.Now()
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &rawHTML, chromedp.ByQuery),
	)
	responseTime := time.Since(startTime)

	if err != nil {
		c.logger.Error("failed to fetch URL", zap.String("url", url), zap.Error(err))
		return nil, fetchError(url, err, taskCtx.Err())
	}
	if err := htmldoc.CheckStatus(url, int(status.Load())); err != nil {
		return nil, err
	}

	page, err := htmldoc.Parse(url, rawHTML)
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
	page.Apply(res)

	c.logger.Info("fetched URL",
		zap.String("url", url),
		zap.Int("status", res.Metadata.StatusCode),
		zap.Int("links", len(res.Links)),
		zap.Duration("response_time", responseTime),
	)
	return res, nil
}

// Close shuts down every browser the fetcher started.
func (c *ChromedpFetcher) Close() {
	for i := 0; i < cap(c.allocators); i++ {
		alloc := <-c.allocators
		alloc.cancel()
	}
}

// fetchError maps a chromedp failure onto the fetch errors. ctxErr is the
// state of the task context when the run returned.
func fetchError(url string, err, ctxErr error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded) {
		return eris.Wrapf(repository.ErrFetchTimeout, "fetch %s", url)
	}
	return eris.Wrapf(repository.ErrNavigationFailed, "fetch %s: %v", url, err)
}
