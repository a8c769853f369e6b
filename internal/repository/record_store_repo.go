package repository

import (
	"context"

	"github.com/user/brand-ingest/internal/entity"
)

// RecordStore persists brand records as a flat property set plus ordered
// child content blocks.
type RecordStore interface {
	// Create stores a new record and returns its id.
	Create(ctx context.Context, props map[string]any, blocks []entity.ContentBlock) (string, error)
	// Patch merges props into an existing record.
	Patch(ctx context.Context, id string, props map[string]any) error
	// Query lists the records matching filter, newest first.
	Query(ctx context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error)
	// Archive marks a record archived. It is never deleted.
	Archive(ctx context.Context, id string) error
}
