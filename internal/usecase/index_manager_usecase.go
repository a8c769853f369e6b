package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/pkg/metrics"
)

var (
	ErrURLRecentlyScraped = errors.New("URL has been scraped recently and force_scrape is false")
)

const (
	defaultDeduplicationExpiry = 48 * time.Hour
)

// IndexManager submits brand URLs for scraping and reports their progress.
type IndexManager interface {
	Submit(ctx context.Context, url string, force bool) (*entity.IndexEntry, error)
	GetStatus(ctx context.Context, url string) (*entity.IndexEntry, error)
}

type indexManagerUseCase struct {
	visitedRepo repository.VisitedRepository
	queueRepo   repository.QueueRepository
	indexRepo   repository.IndexRepository
	dedupe      time.Duration
	logger      *zap.Logger
}

// NewIndexManager creates a new IndexManager use case. A zero dedupe window
// falls back to two days.
func NewIndexManager(
	visitedRepo repository.VisitedRepository,
	queueRepo repository.QueueRepository,
	indexRepo repository.IndexRepository,
	dedupe time.Duration,
	logger *zap.Logger,
) IndexManager {
	if dedupe <= 0 {
		dedupe = defaultDeduplicationExpiry
	}
	return &indexManagerUseCase{
		visitedRepo: visitedRepo,
		queueRepo:   queueRepo,
		indexRepo:   indexRepo,
		dedupe:      dedupe,
		logger:      logger,
	}
}

func (uc *indexManagerUseCase) Submit(ctx context.Context, url string, force bool) (*entity.IndexEntry, error) {
	if force {
		if err := uc.visitedRepo.RemoveVisited(ctx, url); err != nil {
			uc.logger.Warn("failed to remove visited key for forced scrape", zap.String("url", url), zap.Error(err))
		}
	} else {
		isVisited, err := uc.visitedRepo.IsVisited(ctx, url)
		if err != nil {
			return nil, eris.Wrap(err, "check visited")
		}
		if isVisited {
			entry, err := uc.indexRepo.FindByURL(ctx, url)
			if err != nil {
				entry = nil
			}
			return entry, ErrURLRecentlyScraped
		}
	}

	entry, err := uc.indexRepo.Upsert(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "upsert index entry for %s", url)
	}
	if err := uc.queueRepo.Push(ctx, url); err != nil {
		return nil, eris.Wrapf(err, "queue %s", url)
	}

	// The URL is queued either way; a failed mark only allows a duplicate submit.
	if err := uc.visitedRepo.MarkVisited(ctx, url, uc.dedupe); err != nil {
		uc.logger.Error("failed to mark URL as visited after queueing", zap.String("url", url), zap.Error(err))
	}
	refreshQueueGauge(ctx, uc.queueRepo)
	return entry, nil
}

func (uc *indexManagerUseCase) GetStatus(ctx context.Context, url string) (*entity.IndexEntry, error) {
	entry, err := uc.indexRepo.FindByURL(ctx, url)
	if errors.Is(err, repository.ErrIndexEntryNotFound) {
		return &entity.IndexEntry{SourceURL: url, Status: entity.IndexStatusNotFound}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "find index entry for %s", url)
	}
	return entry, nil
}

func refreshQueueGauge(ctx context.Context, queue repository.QueueRepository) {
	if size, err := queue.Size(ctx); err == nil {
		metrics.URLsInQueue.Set(float64(size))
	}
}
