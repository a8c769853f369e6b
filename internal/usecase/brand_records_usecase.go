package usecase

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const defaultListLimit = 50

// BrandRecords reads persisted brand records.
type BrandRecords interface {
	List(ctx context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error)
}

type brandRecordsUseCase struct {
	store repository.RecordStore
}

// NewBrandRecords creates the record listing use case.
func NewBrandRecords(store repository.RecordStore) BrandRecords {
	return &brandRecordsUseCase{store: store}
}

func (uc *brandRecordsUseCase) List(ctx context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = defaultListLimit
	}
	records, err := uc.store.Query(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "list brand records")
	}
	return records, nil
}
