package repository

import (
	"context"

	"github.com/user/brand-ingest/internal/entity"
)

// PageFetcher renders a page in a browser and returns its content.
type PageFetcher interface {
	// Fetch loads url and returns the rendered and raw HTML, links and metadata.
	Fetch(ctx context.Context, url string) (*entity.FetchResult, error)
}
