package usecase

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/extractor"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/session"
	"github.com/user/brand-ingest/pkg/metrics"
)

// ProductScraper pins product page scrapes in their own session store.
// Nothing rejects a write against these sessions yet.
type ProductScraper interface {
	Scrape(ctx context.Context, url string) (*entity.ProductSession, error)
	Get(id string) (entity.ProductSession, bool)
}

type productScrapeUseCase struct {
	fetcher  repository.PageFetcher
	sessions *session.ProductSessions
	logger   *zap.Logger
}

// NewProductScraper creates the product scrape use case.
func NewProductScraper(fetcher repository.PageFetcher, sessions *session.ProductSessions, logger *zap.Logger) ProductScraper {
	return &productScrapeUseCase{fetcher: fetcher, sessions: sessions, logger: logger}
}

func (uc *productScrapeUseCase) Scrape(ctx context.Context, sourceURL string) (*entity.ProductSession, error) {
	start := time.Now()
	fetched, err := uc.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		metrics.ScrapesTotal.WithLabelValues("product", classifyFetchError(err)).Inc()
		return nil, eris.Wrapf(err, "product scrape: fetch %s", sourceURL)
	}
	metrics.ScrapeDuration.WithLabelValues(hostOf(sourceURL)).Observe(time.Since(start).Seconds())

	sess := entity.ProductSession{
		SourceURL:    sourceURL,
		Title:        firstNonEmpty(fetched.Metadata.OgTitle, fetched.Metadata.Title),
		ImageURLs:    extractor.ExtractImageURLs(fetched.Raw(), fetched.Metadata),
		CatalogLinks: extractor.ExtractCatalogLinks(fetched.Links),
		RawMarkdown:  fetched.Markdown,
	}
	id := uc.sessions.Create(sess)
	metrics.ScrapesTotal.WithLabelValues("product", "success").Inc()
	metrics.SessionsActive.WithLabelValues("product").Set(float64(uc.sessions.Len()))

	stored, ok := uc.sessions.Get(id)
	if !ok {
		return nil, eris.Errorf("product scrape: session %s evicted on creation", id)
	}
	uc.logger.Info("product page scraped", zap.String("url", sourceURL), zap.String("session_id", id))
	return &stored, nil
}

func (uc *productScrapeUseCase) Get(id string) (entity.ProductSession, bool) {
	return uc.sessions.Get(id)
}
