package repository

import (
	"context"
	"time"

	"github.com/user/brand-ingest/internal/entity"
)

// EnrichmentCache holds distributor, catalog and image data per source URL.
// A later, richer fetch can supersede what a session captured.
type EnrichmentCache interface {
	// Get returns ErrCacheMiss when nothing is cached for sourceURL.
	Get(ctx context.Context, sourceURL string) (*entity.EnrichmentSnapshot, error)
	Put(ctx context.Context, sourceURL string, snap entity.EnrichmentSnapshot, ttl time.Duration) error
}
