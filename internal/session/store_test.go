package session

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/user/brand-ingest/internal/entity"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func sampleSession(url string) entity.ScrapeSession {
	return entity.ScrapeSession{
		SourceURL: url,
		ContactDetails: entity.ContactDetails{
			Phone: "555-0100",
			Email: "info@acme.example",
			City:  "Berlin",
		},
		Distributors: []entity.ParsedDistributor{{Name: "Foo GmbH", City: "Hamburg"}},
		CatalogLinks: []entity.ParsedCatalogLink{{URL: "https://acme.example/catalog.pdf", Filename: "catalog.pdf"}},
		ImageURLs:    entity.ExtractedImageURLs{LogoURL: "https://cdn.example/logo/acme.png"},
		RawLinks:     []string{"https://acme.example/catalog.pdf"},
		RawMetadata:  &entity.PageMetadata{OgImage: "https://cdn.example/og.jpg"},
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	clock := newClock()
	store := NewBrandSessions(Options{TTL: BrandSessionTTL, Capacity: BrandSessionCapacity, Now: clock.Now})

	in := sampleSession("https://example.com/b/acme/1")
	id := store.Create(in)
	if id == "" {
		t.Fatal("expected a session id")
	}

	got, ok := store.Get(id)
	if !ok {
		t.Fatal("session not found right after creation")
	}
	if got.SessionID != id {
		t.Fatalf("expected session id %q, got %q", id, got.SessionID)
	}
	if !got.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("expected createdAt %v, got %v", clock.Now(), got.CreatedAt)
	}
	if got.SourceURL != in.SourceURL {
		t.Fatalf("source url changed: %q", got.SourceURL)
	}
	if !reflect.DeepEqual(got.ContactDetails, in.ContactDetails) ||
		!reflect.DeepEqual(got.Distributors, in.Distributors) ||
		!reflect.DeepEqual(got.CatalogLinks, in.CatalogLinks) ||
		!reflect.DeepEqual(got.ImageURLs, in.ImageURLs) {
		t.Fatalf("fragments differ after round trip: %+v", got)
	}
}

func TestCreateIssuesUniqueIDs(t *testing.T) {
	store := NewBrandSessions(Options{TTL: time.Hour, Capacity: 10})
	a := store.Create(sampleSession("https://a.example"))
	b := store.Create(sampleSession("https://a.example"))
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestGetReturnsDeepCopy(t *testing.T) {
	store := NewBrandSessions(Options{TTL: time.Hour, Capacity: 10})
	in := sampleSession("https://example.com/b/acme/1")
	id := store.Create(in)

	// Mutating the input after Create must not leak into the store.
	in.Distributors[0].Name = "mutated"
	in.RawMetadata.OgImage = "mutated"

	first, _ := store.Get(id)
	first.Distributors[0].City = "mutated"
	first.CatalogLinks[0].URL = "mutated"
	first.RawLinks[0] = "mutated"
	first.RawMetadata.OgImage = "mutated"

	second, _ := store.Get(id)
	if second.Distributors[0].Name != "Foo GmbH" || second.Distributors[0].City != "Hamburg" {
		t.Fatalf("distributors mutated through a copy: %+v", second.Distributors)
	}
	if second.CatalogLinks[0].URL != "https://acme.example/catalog.pdf" {
		t.Fatalf("catalog links mutated through a copy: %+v", second.CatalogLinks)
	}
	if second.RawLinks[0] != "https://acme.example/catalog.pdf" {
		t.Fatalf("raw links mutated through a copy: %+v", second.RawLinks)
	}
	if second.RawMetadata.OgImage != "https://cdn.example/og.jpg" {
		t.Fatalf("metadata mutated through a copy: %+v", second.RawMetadata)
	}
}

func TestExpiry(t *testing.T) {
	clock := newClock()
	store := NewBrandSessions(Options{TTL: BrandSessionTTL, Capacity: BrandSessionCapacity, Now: clock.Now})

	gone := store.Create(sampleSession("https://gone.example"))
	clock.Advance(30 * time.Minute)
	keep := store.Create(sampleSession("https://keep.example"))

	clock.Advance(BrandSessionTTL - 30*time.Minute)
	if _, ok := store.Get(gone); !ok {
		t.Fatal("session should still be alive exactly at TTL")
	}

	clock.Advance(time.Millisecond)
	before := store.Len()
	if _, ok := store.Get(gone); ok {
		t.Fatal("expected expired session to be reported as not found")
	}
	if store.Len() != before-1 {
		t.Fatalf("expected size to drop from %d to %d, got %d", before, before-1, store.Len())
	}
	if _, ok := store.Get(keep); !ok {
		t.Fatal("younger session should survive")
	}
}

func TestExpiredEntryIsRemovedOnGet(t *testing.T) {
	clock := newClock()
	store := NewBrandSessions(Options{TTL: time.Hour, Capacity: 10, Now: clock.Now})
	id := store.Create(sampleSession("https://example.com"))

	clock.Advance(time.Hour + time.Millisecond)
	if _, ok := store.Get(id); ok {
		t.Fatal("expected not found")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, %d left", store.Len())
	}
}

func TestCapacityEviction(t *testing.T) {
	const capacity, extra = 5, 3
	clock := newClock()
	store := NewBrandSessions(Options{TTL: time.Hour, Capacity: capacity, Now: clock.Now})

	var ids []string
	for i := 0; i < capacity+extra; i++ {
		ids = append(ids, store.Create(sampleSession(fmt.Sprintf("https://example.com/%d", i))))
		clock.Advance(time.Second)
	}

	if store.Len() != capacity {
		t.Fatalf("expected %d entries, got %d", capacity, store.Len())
	}
	for i, id := range ids {
		_, ok := store.Get(id)
		if i < extra && ok {
			t.Errorf("session %d should have been evicted", i)
		}
		if i >= extra && !ok {
			t.Errorf("session %d should have been retained", i)
		}
	}
}

func TestCapacityEvictionWithIdenticalTimestamps(t *testing.T) {
	clock := newClock()
	cache := NewCache(Options{TTL: time.Hour, Capacity: 2, Now: clock.Now}, func(s string) string { return s })

	cache.Put("a", "1")
	cache.Put("b", "2")
	cache.Put("c", "3")

	if _, ok := cache.Get("a"); ok {
		t.Fatal("expected the first inserted entry to be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := cache.Get(k); !ok {
			t.Fatalf("expected %q to be retained", k)
		}
	}
}

func TestCachePutOverwrites(t *testing.T) {
	clock := newClock()
	payloads := NewDeferredPayloads(Options{TTL: DeferredPayloadTTL, Capacity: DeferredPayloadCap, Now: clock.Now})

	payloads.Put("rec-1", entity.DeferredCreatePayload{RecordID: "rec-1", Name: "first"})
	payloads.Put("rec-1", entity.DeferredCreatePayload{RecordID: "rec-1", Name: "second"})

	got, ok := payloads.Get("rec-1")
	if !ok || got.Name != "second" {
		t.Fatalf("expected last write to win, got %+v (found=%v)", got, ok)
	}
	if payloads.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", payloads.Len())
	}

	payloads.Delete("rec-1")
	if _, ok := payloads.Get("rec-1"); ok {
		t.Fatal("expected entry to be deleted")
	}
}

func TestProductSessionsAreIndependent(t *testing.T) {
	products := NewProductSessions(Options{TTL: ProductSessionTTL, Capacity: ProductSessionCapacity})
	brands := NewBrandSessions(Options{TTL: BrandSessionTTL, Capacity: BrandSessionCapacity})

	id := products.Create(entity.ProductSession{SourceURL: "https://example.com/p/1", Title: "Chair"})
	if _, ok := brands.Get(id); ok {
		t.Fatal("product session id must not resolve in the brand store")
	}
	got, ok := products.Get(id)
	if !ok || got.Title != "Chair" || got.SessionID != id {
		t.Fatalf("unexpected product session %+v", got)
	}
}
