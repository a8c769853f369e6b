package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

// ScrapeWorker drains the scrape queue one URL at a time.
type ScrapeWorker interface {
	ProcessNext(ctx context.Context) error
	Run(ctx context.Context, interval time.Duration)
}

type scrapeWorkerUseCase struct {
	queueRepo repository.QueueRepository
	indexRepo repository.IndexRepository
	scraper   BrandScraper
	logger    *zap.Logger
}

// NewScrapeWorker creates a worker that scrapes queued brand URLs into sessions.
func NewScrapeWorker(
	queueRepo repository.QueueRepository,
	indexRepo repository.IndexRepository,
	scraper BrandScraper,
	logger *zap.Logger,
) ScrapeWorker {
	return &scrapeWorkerUseCase{
		queueRepo: queueRepo,
		indexRepo: indexRepo,
		scraper:   scraper,
		logger:    logger,
	}
}

// ProcessNext pops a single URL and scrapes it. An empty queue is not an error.
func (uc *scrapeWorkerUseCase) ProcessNext(ctx context.Context) error {
	url, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEmpty) {
			return nil
		}
		return eris.Wrap(err, "pop URL from queue")
	}
	defer refreshQueueGauge(ctx, uc.queueRepo)

	entry, err := uc.indexRepo.FindByURL(ctx, url)
	if errors.Is(err, repository.ErrIndexEntryNotFound) {
		entry, err = uc.indexRepo.Upsert(ctx, url)
	}
	if err != nil {
		return eris.Wrapf(err, "resolve index entry for %s", url)
	}

	uc.logger.Info("processing URL from queue", zap.String("url", url), zap.String("index_entry_id", entry.ID))
	outcome, scrapeErr := uc.scraper.Scrape(ctx, url)
	if scrapeErr != nil {
		uc.logger.Error("scrape failed", zap.String("url", url),
			zap.String("error_type", classifyFetchError(scrapeErr)), zap.Error(scrapeErr))
		update := entity.IndexUpdate{Status: entity.IndexStatusFailed, FailureReason: scrapeErr.Error(), Scraped: true}
		if err := uc.indexRepo.Update(ctx, entry.ID, update); err != nil {
			return eris.Wrapf(err, "mark index entry %s failed", entry.ID)
		}
		return nil
	}

	update := entity.IndexUpdate{Status: entity.IndexStatusScraped, SessionID: outcome.SessionID, Scraped: true}
	if err := uc.indexRepo.Update(ctx, entry.ID, update); err != nil {
		return eris.Wrapf(err, "mark index entry %s scraped", entry.ID)
	}
	return nil
}

// Run calls ProcessNext on every tick until ctx is done.
func (uc *scrapeWorkerUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.ProcessNext(ctx); err != nil {
				uc.logger.Error("scrape worker iteration failed", zap.Error(err))
			}
		}
	}
}
