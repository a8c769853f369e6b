package repository

import (
	"context"
	"time"
)

// VisitedRepository remembers recently scraped URLs so that resubmissions
// inside the deduplication window are rejected.
type VisitedRepository interface {
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
	IsVisited(ctx context.Context, url string) (bool, error)
	// RemoveVisited clears the mark, used when a scrape is forced.
	RemoveVisited(ctx context.Context, url string) error
}
