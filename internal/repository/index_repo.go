package repository

import (
	"context"

	"github.com/user/brand-ingest/internal/entity"
)

// IndexRepository tracks every brand URL submitted for ingestion.
type IndexRepository interface {
	// Upsert creates a pending entry for sourceURL or resets an existing one to pending.
	Upsert(ctx context.Context, sourceURL string) (*entity.IndexEntry, error)
	// FindByURL returns ErrIndexEntryNotFound when the URL was never submitted.
	FindByURL(ctx context.Context, sourceURL string) (*entity.IndexEntry, error)
	// FindByID returns ErrIndexEntryNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*entity.IndexEntry, error)
	// Update applies a status transition to an entry.
	Update(ctx context.Context, id string, update entity.IndexUpdate) error
}
