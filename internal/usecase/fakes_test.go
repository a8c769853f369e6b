package usecase

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type fakeFetcher struct {
	pages map[string]*entity.FetchResult
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*entity.FetchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, repository.ErrNavigationFailed
	}
	out := *page
	out.URL = url
	return &out, nil
}

type storedRecord struct {
	props  map[string]any
	blocks []entity.ContentBlock
}

type fakeStore struct {
	mu       sync.Mutex
	records  map[string]*storedRecord
	archived map[string]bool
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*storedRecord{}, archived: map[string]bool{}}
}

func (s *fakeStore) Create(_ context.Context, props map[string]any, blocks []entity.ContentBlock) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("rec-%d", s.nextID)
	s.records[id] = &storedRecord{props: props, blocks: blocks}
	return id, nil
}

func (s *fakeStore) Patch(_ context.Context, id string, props map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	for k, v := range props {
		rec.props[k] = v
	}
	return nil
}

func (s *fakeStore) Query(_ context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.BrandRecord
	for id, rec := range s.records {
		status, _ := rec.props["status"].(string)
		if filter.Status != "" && status != filter.Status {
			continue
		}
		out = append(out, &entity.BrandRecord{ID: id, Status: status})
	}
	return out, nil
}

func (s *fakeStore) Archive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	rec.props["status"] = entity.RecordStatusArchived
	s.archived[id] = true
	return nil
}

type fakeIndex struct {
	mu      sync.Mutex
	entries map[string]*entity.IndexEntry
	nextID  int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{entries: map[string]*entity.IndexEntry{}}
}

func (f *fakeIndex) Upsert(_ context.Context, url string) (*entity.IndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.SourceURL == url {
			e.Status = entity.IndexStatusPending
			e.FailureReason = ""
			out := *e
			return &out, nil
		}
	}
	f.nextID++
	e := &entity.IndexEntry{ID: fmt.Sprintf("idx-%d", f.nextID), SourceURL: url, Status: entity.IndexStatusPending}
	f.entries[e.ID] = e
	out := *e
	return &out, nil
}

func (f *fakeIndex) FindByURL(_ context.Context, url string) (*entity.IndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.SourceURL == url {
			out := *e
			return &out, nil
		}
	}
	return nil, repository.ErrIndexEntryNotFound
}

func (f *fakeIndex) FindByID(_ context.Context, id string) (*entity.IndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrIndexEntryNotFound
	}
	out := *e
	return &out, nil
}

func (f *fakeIndex) Update(_ context.Context, id string, u entity.IndexUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return repository.ErrIndexEntryNotFound
	}
	if u.Status != "" {
		e.Status = u.Status
	}
	if u.SessionID != "" {
		e.SessionID = u.SessionID
	}
	if u.RecordID != "" {
		e.RecordID = u.RecordID
	}
	if u.FailureReason != "" {
		e.FailureReason = u.FailureReason
	}
	if u.Scraped {
		e.Attempts++
	}
	return nil
}

type fakeQueue struct {
	items []string
}

func (q *fakeQueue) Push(_ context.Context, url string) error {
	q.items = append(q.items, url)
	return nil
}

func (q *fakeQueue) Pop(_ context.Context) (string, error) {
	if len(q.items) == 0 {
		return "", repository.ErrQueueEmpty
	}
	url := q.items[0]
	q.items = q.items[1:]
	return url, nil
}

func (q *fakeQueue) Size(_ context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

type fakeVisited struct {
	urls map[string]bool
}

func newFakeVisited() *fakeVisited {
	return &fakeVisited{urls: map[string]bool{}}
}

func (v *fakeVisited) MarkVisited(_ context.Context, url string, _ time.Duration) error {
	v.urls[url] = true
	return nil
}

func (v *fakeVisited) IsVisited(_ context.Context, url string) (bool, error) {
	return v.urls[url], nil
}

func (v *fakeVisited) RemoveVisited(_ context.Context, url string) error {
	delete(v.urls, url)
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	snaps map[string]entity.EnrichmentSnapshot
}

func newFakeCache() *fakeCache {
	return &fakeCache{snaps: map[string]entity.EnrichmentSnapshot{}}
}

func (c *fakeCache) Get(_ context.Context, url string) (*entity.EnrichmentSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[url]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &snap, nil
}

func (c *fakeCache) Put(_ context.Context, url string, snap entity.EnrichmentSnapshot, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[url] = snap
	return nil
}

type fakeDiscovery struct {
	contacts []entity.EnrichmentContact
	err      error
	domains  []string
	mu       sync.Mutex
}

func (d *fakeDiscovery) DomainSearch(_ context.Context, domain string, _ int) ([]entity.EnrichmentContact, error) {
	d.mu.Lock()
	d.domains = append(d.domains, domain)
	d.mu.Unlock()
	return d.contacts, d.err
}

type fakeCatalogService struct {
	calls []entity.DeferredCreatePayload
	err   error
}

func (s *fakeCatalogService) CreateCatalog(_ context.Context, p entity.DeferredCreatePayload) (string, error) {
	s.calls = append(s.calls, p)
	if s.err != nil {
		return "", s.err
	}
	return "cat-" + p.RecordID, nil
}
