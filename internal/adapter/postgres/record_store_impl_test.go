package postgres

import (
	"testing"
	"time"

	"github.com/user/brand-ingest/internal/entity"
)

func TestDecodeRecord(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	props := []byte(`{"sourceUrl":"https://example.com/b/acme/1","name":"Acme","status":"active","productCategories":["Chairs"],"isDisabled":false}`)

	rec, err := decodeRecord("rec-1", entity.RecordStatusArchived, props, created)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID != "rec-1" || rec.Name != "Acme" || rec.ProductCategories[0] != "Chairs" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Status != entity.RecordStatusArchived {
		t.Errorf("status column must win, got %q", rec.Status)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("created_at not applied: %v", rec.CreatedAt)
	}
}

func TestDecodeRecord_BadJSON(t *testing.T) {
	if _, err := decodeRecord("rec-1", "", []byte(`{`), time.Time{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestStatusOf(t *testing.T) {
	if got := statusOf(map[string]any{"status": "created"}, "active"); got != "created" {
		t.Errorf("got %q", got)
	}
	if got := statusOf(map[string]any{"status": 3}, "active"); got != "active" {
		t.Errorf("got %q", got)
	}
	if got := statusOf(nil, ""); got != "" {
		t.Errorf("got %q", got)
	}
}
