package repository

import "context"

// QueueRepository is the FIFO queue of brand URLs waiting to be scraped.
type QueueRepository interface {
	Push(ctx context.Context, url string) error
	// Pop returns ErrQueueEmpty when nothing is waiting.
	Pop(ctx context.Context) (string, error)
	Size(ctx context.Context) (int64, error)
}
