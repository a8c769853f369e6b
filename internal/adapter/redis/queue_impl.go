package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/repository"
)

const scrapeQueueKey = "brand-ingest:queue"

// QueueRepoImpl provides a concrete implementation for the QueueRepository interface using Redis Lists.
type QueueRepoImpl struct {
	client redis.Cmdable
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client redis.Cmdable) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a URL to the left side of the list.
func (r *QueueRepoImpl) Push(ctx context.Context, url string) error {
	if err := r.client.LPush(ctx, scrapeQueueKey, url).Err(); err != nil {
		return eris.Wrap(err, "push scrape queue")
	}
	return nil
}

// Pop removes a URL from the right side of the list, so URLs leave in the
// order they were pushed.
func (r *QueueRepoImpl) Pop(ctx context.Context) (string, error) {
	url, err := r.client.RPop(ctx, scrapeQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrQueueEmpty
	}
	if err != nil {
		return "", eris.Wrap(err, "pop scrape queue")
	}
	return url, nil
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, scrapeQueueKey).Result()
}
