package session

import (
	"time"

	"github.com/google/uuid"
)

// Store issues a fresh opaque identifier for every snapshot it keeps.
type Store[T any] struct {
	cache *Cache[T]
	stamp func(v T, id string, createdAt time.Time) T
	newID func() string
}

// NewStore creates a Store. stamp writes the generated id and creation time
// into the snapshot before it is cached.
func NewStore[T any](opts Options, clone func(T) T, stamp func(v T, id string, createdAt time.Time) T) *Store[T] {
	return &Store[T]{
		cache: NewCache(opts, clone),
		stamp: stamp,
		newID: uuid.NewString,
	}
}

// Create stores v under a new identifier and returns it.
func (s *Store[T]) Create(v T) string {
	id := s.newID()
	if s.stamp != nil {
		v = s.stamp(v, id, s.cache.Now())
	}
	s.cache.Put(id, v)
	return id
}

// Get returns a copy of the snapshot stored under id.
func (s *Store[T]) Get(id string) (T, bool) {
	return s.cache.Get(id)
}

// Len returns the number of stored snapshots.
func (s *Store[T]) Len() int {
	return s.cache.Len()
}
