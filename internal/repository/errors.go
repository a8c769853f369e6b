package repository

import "errors"

// Errors returned by repository implementations. Callers match them with errors.Is.
var (
	ErrFetchTimeout       = errors.New("page fetch timed out")
	ErrNavigationFailed   = errors.New("navigation failed")
	ErrContentRestricted  = errors.New("content is restricted or requires authentication")
	ErrRecordNotFound     = errors.New("brand record not found")
	ErrIndexEntryNotFound = errors.New("index entry not found")
	ErrQueueEmpty         = errors.New("scrape queue is empty")
	ErrCacheMiss          = errors.New("enrichment cache miss")

	ErrContactDiscoveryUnavailable = errors.New("contact discovery service unavailable")
	ErrCatalogServiceRejected      = errors.New("catalog service rejected the payload")
)
