package response

import (
	"time"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/usecase"
)

type SubmitIndexResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	IndexEntryID string `json:"index_entry_id,omitempty"`
}

// IndexStatusResponse is a DTO for an index entry, mirroring entity.IndexEntry.
type IndexStatusResponse struct {
	URL           string     `json:"url"`
	CurrentStatus string     `json:"current_status"` // "pending", "scraped", "saved", "created", "failed"
	IndexEntryID  string     `json:"index_entry_id,omitempty"`
	SessionID     string     `json:"session_id,omitempty"`
	RecordID      string     `json:"record_id,omitempty"`
	Attempts      int        `json:"attempts"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

func NewIndexStatusResponse(e *entity.IndexEntry) IndexStatusResponse {
	return IndexStatusResponse{
		URL:           e.SourceURL,
		CurrentStatus: e.Status,
		IndexEntryID:  e.ID,
		SessionID:     e.SessionID,
		RecordID:      e.RecordID,
		Attempts:      e.Attempts,
		LastScrapedAt: e.LastScrapedAt,
		FailureReason: e.FailureReason,
	}
}

// SaveResponse wraps the outcome of a brand save.
type SaveResponse struct {
	Status string `json:"status"` // "success" or "rejected"
	*usecase.SaveResult
}

type BrandListResponse struct {
	Count   int                   `json:"count"`
	Records []*entity.BrandRecord `json:"records"`
}
