package repository

import (
	"context"

	"github.com/user/brand-ingest/internal/entity"
)

// CatalogService creates the downstream catalog for a saved brand.
type CatalogService interface {
	// CreateCatalog returns the downstream catalog id.
	CreateCatalog(ctx context.Context, payload entity.DeferredCreatePayload) (string, error)
}
