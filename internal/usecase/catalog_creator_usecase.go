package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/session"
	"github.com/user/brand-ingest/pkg/metrics"
)

var (
	ErrPayloadNotFound   = errors.New("deferred create payload not found or expired")
	ErrPayloadIncomplete = errors.New("deferred create payload is incomplete")
)

// CreationResult reports a downstream catalog creation.
type CreationResult struct {
	RecordID    string `json:"recordId"`
	CatalogID   string `json:"catalogId"`
	CountryName string `json:"countryName"`
}

// CatalogCreator consumes deferred create payloads.
type CatalogCreator interface {
	Create(ctx context.Context, recordID string) (*CreationResult, error)
}

type catalogCreatorUseCase struct {
	payloads *session.DeferredPayloads
	service  repository.CatalogService
	store    repository.RecordStore
	index    repository.IndexRepository
	logger   *zap.Logger
}

// NewCatalogCreator creates the downstream creation use case.
func NewCatalogCreator(
	payloads *session.DeferredPayloads,
	service repository.CatalogService,
	store repository.RecordStore,
	index repository.IndexRepository,
	logger *zap.Logger,
) CatalogCreator {
	return &catalogCreatorUseCase{
		payloads: payloads,
		service:  service,
		store:    store,
		index:    index,
		logger:   logger,
	}
}

func (uc *catalogCreatorUseCase) Create(ctx context.Context, recordID string) (*CreationResult, error) {
	p, ok := uc.payloads.Get(recordID)
	if !ok {
		metrics.CatalogCreationsTotal.WithLabelValues("payload_missing").Inc()
		return nil, eris.Wrapf(ErrPayloadNotFound, "record %s", recordID)
	}
	recoverCountryName(&p)
	if retryable, nonRetryable := MissingFields(p); len(retryable)+len(nonRetryable) > 0 {
		metrics.CatalogCreationsTotal.WithLabelValues("incomplete").Inc()
		missing := append(nonRetryable, retryable...)
		return nil, eris.Wrapf(ErrPayloadIncomplete, "record %s missing %s", recordID, strings.Join(missing, ", "))
	}

	catalogID, err := uc.service.CreateCatalog(ctx, p)
	if err != nil {
		metrics.CatalogCreationsTotal.WithLabelValues("failure").Inc()
		return nil, eris.Wrapf(err, "create catalog for record %s", recordID)
	}
	log := uc.logger.With(zap.String("record_id", recordID), zap.String("catalog_id", catalogID))

	patch := map[string]any{
		"catalogId":   catalogID,
		"status":      entity.RecordStatusCreated,
		"countryName": p.CountryName,
	}
	if err := uc.store.Patch(ctx, recordID, patch); err != nil {
		metrics.CatalogCreationsTotal.WithLabelValues("patch_failed").Inc()
		log.Error("catalog created but record patch failed", zap.Error(err))
		return nil, eris.Wrapf(err, "patch record %s with catalog %s", recordID, catalogID)
	}
	if p.IndexEntryID != "" {
		err := uc.index.Update(ctx, p.IndexEntryID, entity.IndexUpdate{Status: entity.IndexStatusCreated, RecordID: recordID})
		if err != nil {
			log.Warn("failed to mark index entry created", zap.String("index_entry_id", p.IndexEntryID), zap.Error(err))
		}
	}
	uc.payloads.Delete(recordID)

	metrics.CatalogCreationsTotal.WithLabelValues("success").Inc()
	metrics.DeferredPayloadsTotal.WithLabelValues("consumed").Inc()
	log.Info("downstream catalog created")

	return &CreationResult{RecordID: recordID, CatalogID: catalogID, CountryName: p.CountryName}, nil
}
