package entity

import "time"

// EnrichmentSnapshot is the auxiliary cache entry for one source URL.
type EnrichmentSnapshot struct {
	Distributors []ParsedDistributor `json:"distributors,omitempty"`
	CatalogLinks []ParsedCatalogLink `json:"catalogLinks,omitempty"`
	ImageURLs    ExtractedImageURLs  `json:"imageUrls"`
	CachedAt     time.Time           `json:"cachedAt"`
}
