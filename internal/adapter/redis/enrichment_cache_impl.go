package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/pkg/utils"
)

const enrichmentPrefix = "brand-ingest:enrichment:"

// EnrichmentCacheImpl stores enrichment snapshots as JSON strings keyed by
// the hashed source URL.
type EnrichmentCacheImpl struct {
	client redis.Cmdable
}

// NewEnrichmentCache creates a new instance of EnrichmentCacheImpl.
func NewEnrichmentCache(client redis.Cmdable) *EnrichmentCacheImpl {
	return &EnrichmentCacheImpl{client: client}
}

func (c *EnrichmentCacheImpl) key(sourceURL string) string {
	return enrichmentPrefix + utils.HashURL(sourceURL)
}

// Get returns repository.ErrCacheMiss when nothing is stored for sourceURL.
func (c *EnrichmentCacheImpl) Get(ctx context.Context, sourceURL string) (*entity.EnrichmentSnapshot, error) {
	raw, err := c.client.Get(ctx, c.key(sourceURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read enrichment for %s", sourceURL)
	}
	var snap entity.EnrichmentSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, eris.Wrapf(err, "decode enrichment for %s", sourceURL)
	}
	return &snap, nil
}

// Put replaces the snapshot for sourceURL.
func (c *EnrichmentCacheImpl) Put(ctx context.Context, sourceURL string, snap entity.EnrichmentSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return eris.Wrap(err, "encode enrichment")
	}
	if err := c.client.Set(ctx, c.key(sourceURL), raw, ttl).Err(); err != nil {
		return eris.Wrapf(err, "write enrichment for %s", sourceURL)
	}
	return nil
}
