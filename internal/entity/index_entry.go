package entity

import "time"

// Index entry statuses.
const (
	IndexStatusPending  = "pending"
	IndexStatusScraped  = "scraped"
	IndexStatusSaved    = "saved"
	IndexStatusCreated  = "created"
	IndexStatusFailed   = "failed"
	IndexStatusNotFound = "not_found"
)

// IndexEntry mirrors the `brand_index` PostgreSQL table: one row per brand URL
// that was submitted for ingestion.
type IndexEntry struct {
	ID            string     `json:"id"`
	SourceURL     string     `json:"sourceUrl"`
	Status        string     `json:"status"`
	SessionID     string     `json:"sessionId,omitempty"`
	RecordID      string     `json:"recordId,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
	Attempts      int        `json:"attempts"`
	LastScrapedAt *time.Time `json:"lastScrapedAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IndexUpdate is a status transition of an index entry. Empty fields are left unchanged.
type IndexUpdate struct {
	Status        string
	SessionID     string
	RecordID      string
	FailureReason string
	Scraped       bool
}
