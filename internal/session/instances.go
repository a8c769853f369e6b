package session

import (
	"time"

	"github.com/user/brand-ingest/internal/entity"
)

// Defaults for the process-wide instances.
const (
	BrandSessionTTL        = 60 * time.Minute
	BrandSessionCapacity   = 300
	ProductSessionTTL      = 60 * time.Minute
	ProductSessionCapacity = 1000
	DeferredPayloadTTL     = 6 * time.Hour
	DeferredPayloadCap     = 500
)

// BrandSessions keeps brand scrape sessions.
type BrandSessions = Store[entity.ScrapeSession]

// ProductSessions keeps product scrape sessions.
type ProductSessions = Store[entity.ProductSession]

// DeferredPayloads keeps deferred create payloads keyed by record id.
type DeferredPayloads = Cache[entity.DeferredCreatePayload]

// NewBrandSessions creates the brand session store.
func NewBrandSessions(opts Options) *BrandSessions {
	return NewStore(opts, entity.ScrapeSession.Clone,
		func(s entity.ScrapeSession, id string, createdAt time.Time) entity.ScrapeSession {
			s.SessionID = id
			s.CreatedAt = createdAt
			return s
		})
}

// NewProductSessions creates the product session store.
func NewProductSessions(opts Options) *ProductSessions {
	return NewStore(opts, entity.ProductSession.Clone,
		func(s entity.ProductSession, id string, createdAt time.Time) entity.ProductSession {
			s.SessionID = id
			s.CreatedAt = createdAt
			return s
		})
}

// NewDeferredPayloads creates the deferred create payload cache.
func NewDeferredPayloads(opts Options) *DeferredPayloads {
	return NewCache(opts, entity.DeferredCreatePayload.Clone)
}
