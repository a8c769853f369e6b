package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/extractor"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/session"
	"github.com/user/brand-ingest/pkg/metrics"
)

// ScrapeOutcome is what a brand scrape hands back to the caller. The
// discovered contacts are suggestions for enrichment, not scraped facts.
type ScrapeOutcome struct {
	SessionID          string                     `json:"sessionId"`
	SourceURL          string                     `json:"sourceUrl"`
	ContactDetails     entity.ContactDetails      `json:"contactDetails"`
	Distributors       []entity.ParsedDistributor `json:"distributors"`
	CatalogLinks       []entity.ParsedCatalogLink `json:"catalogLinks"`
	ImageURLs          entity.ExtractedImageURLs  `json:"imageUrls"`
	Metadata           entity.PageMetadata        `json:"metadata"`
	ContactStrategy    string                     `json:"contactStrategy,omitempty"`
	DiscoveredContacts []entity.EnrichmentContact `json:"discoveredContacts,omitempty"`
}

// BrandScraper fetches a brand page and pins what it found in a session.
type BrandScraper interface {
	Scrape(ctx context.Context, url string) (*ScrapeOutcome, error)
}

// BrandScrapeOptions tunes the optional collaborators of a brand scrape.
type BrandScrapeOptions struct {
	DiscoveryLimit int
	EnrichmentTTL  time.Duration
}

type brandScrapeUseCase struct {
	fetcher   repository.PageFetcher
	sessions  *session.BrandSessions
	cache     repository.EnrichmentCache
	discovery repository.ContactDiscovery
	opts      BrandScrapeOptions
	logger    *zap.Logger
}

// NewBrandScraper creates the scrape use case. cache and discovery may be nil.
func NewBrandScraper(
	fetcher repository.PageFetcher,
	sessions *session.BrandSessions,
	cache repository.EnrichmentCache,
	discovery repository.ContactDiscovery,
	opts BrandScrapeOptions,
	logger *zap.Logger,
) BrandScraper {
	if opts.DiscoveryLimit <= 0 {
		opts.DiscoveryLimit = 10
	}
	if opts.EnrichmentTTL <= 0 {
		opts.EnrichmentTTL = 24 * time.Hour
	}
	return &brandScrapeUseCase{
		fetcher:   fetcher,
		sessions:  sessions,
		cache:     cache,
		discovery: discovery,
		opts:      opts,
		logger:    logger,
	}
}

func (uc *brandScrapeUseCase) Scrape(ctx context.Context, sourceURL string) (*ScrapeOutcome, error) {
	start := time.Now()
	domain := hostOf(sourceURL)
	log := uc.logger.With(zap.String("url", sourceURL))

	var (
		fetched  *entity.FetchResult
		contacts []entity.EnrichmentContact
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := uc.fetcher.Fetch(gCtx, sourceURL)
		if err != nil {
			return eris.Wrapf(err, "scrape: fetch %s", sourceURL)
		}
		fetched = res
		return nil
	})
	if uc.discovery != nil && domain != "" {
		g.Go(func() error {
			found, err := uc.discovery.DomainSearch(gCtx, strings.TrimPrefix(domain, "www."), uc.opts.DiscoveryLimit)
			if err != nil {
				if !errors.Is(err, repository.ErrContactDiscoveryUnavailable) && !errors.Is(err, context.Canceled) {
					log.Warn("contact discovery failed", zap.Error(err))
				}
				return nil
			}
			contacts = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ScrapesTotal.WithLabelValues("brand", classifyFetchError(err)).Inc()
		return nil, err
	}
	metrics.ScrapeDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())

	ext := extractor.Extract(*fetched)
	uc.cacheEnrichment(ctx, sourceURL, ext)

	meta := fetched.Metadata
	id := uc.sessions.Create(entity.ScrapeSession{
		SourceURL:      sourceURL,
		ContactDetails: ext.ContactDetails,
		Distributors:   ext.Distributors,
		CatalogLinks:   ext.CatalogLinks,
		ImageURLs:      ext.ImageURLs,
		RawMarkdown:    fetched.Markdown,
		RawLinks:       fetched.Links,
		RawMetadata:    &meta,
	})
	metrics.ScrapesTotal.WithLabelValues("brand", "success").Inc()
	metrics.SessionsActive.WithLabelValues("brand").Set(float64(uc.sessions.Len()))

	log.Info("brand page scraped",
		zap.String("session_id", id),
		zap.String("contact_strategy", ext.ContactStrategy),
		zap.Int("distributors", len(ext.Distributors)),
		zap.Int("catalog_links", len(ext.CatalogLinks)),
		zap.Int("discovered_contacts", len(contacts)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &ScrapeOutcome{
		SessionID:          id,
		SourceURL:          sourceURL,
		ContactDetails:     ext.ContactDetails,
		Distributors:       ext.Distributors,
		CatalogLinks:       ext.CatalogLinks,
		ImageURLs:          ext.ImageURLs,
		Metadata:           meta,
		ContactStrategy:    ext.ContactStrategy,
		DiscoveredContacts: contacts,
	}, nil
}

// cacheEnrichment writes the extracted lists to the auxiliary cache unless a
// richer entry is already there.
func (uc *brandScrapeUseCase) cacheEnrichment(ctx context.Context, sourceURL string, ext extractor.Result) {
	if uc.cache == nil || (len(ext.Distributors) == 0 && len(ext.CatalogLinks) == 0) {
		return
	}
	existing, err := uc.cache.Get(ctx, sourceURL)
	switch {
	case errors.Is(err, repository.ErrCacheMiss):
	case err != nil:
		uc.logger.Warn("enrichment cache read failed", zap.String("url", sourceURL), zap.Error(err))
		return
	case len(existing.Distributors) >= len(ext.Distributors) && len(existing.CatalogLinks) >= len(ext.CatalogLinks):
		return
	}

	snap := entity.EnrichmentSnapshot{
		Distributors: ext.Distributors,
		CatalogLinks: ext.CatalogLinks,
		ImageURLs:    ext.ImageURLs,
		CachedAt:     time.Now(),
	}
	if err := uc.cache.Put(ctx, sourceURL, snap, uc.opts.EnrichmentTTL); err != nil {
		uc.logger.Warn("enrichment cache write failed", zap.String("url", sourceURL), zap.Error(err))
	}
}

// classifyFetchError maps a fetch failure onto a metrics label.
func classifyFetchError(err error) string {
	switch {
	case errors.Is(err, repository.ErrFetchTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrContentRestricted):
		return "restricted"
	}
	return "failure"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
