package repository

import (
	"context"

	"github.com/user/brand-ingest/internal/entity"
)

// ContactDiscovery looks up people working at a domain. Results are enrichment
// only and never count as scraped facts.
type ContactDiscovery interface {
	// DomainSearch returns ErrContactDiscoveryUnavailable when the service is
	// not configured or cannot be reached.
	DomainSearch(ctx context.Context, domain string, limit int) ([]entity.EnrichmentContact, error)
}
