package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const indexColumns = `id, source_url, status, session_id, record_id, failure_reason, attempts, last_scraped_at, updated_at`

// IndexRepoImpl provides a concrete implementation for the IndexRepository interface using PostgreSQL.
type IndexRepoImpl struct {
	db *pgxpool.Pool
}

// NewIndexRepo creates a new instance of IndexRepoImpl.
func NewIndexRepo(db *pgxpool.Pool) *IndexRepoImpl {
	return &IndexRepoImpl{db: db}
}

// Upsert creates a pending entry or resets an existing one to pending.
func (r *IndexRepoImpl) Upsert(ctx context.Context, sourceURL string) (*entity.IndexEntry, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO brand_index (id, source_url, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_url) DO UPDATE SET
			status = EXCLUDED.status,
			failure_reason = '',
			updated_at = NOW()
		RETURNING `+indexColumns,
		uuid.NewString(), sourceURL, entity.IndexStatusPending)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, eris.Wrapf(err, "upsert index entry for %s", sourceURL)
	}
	return entry, nil
}

// FindByURL retrieves the entry for a source URL.
func (r *IndexRepoImpl) FindByURL(ctx context.Context, sourceURL string) (*entity.IndexEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+indexColumns+` FROM brand_index WHERE source_url = $1`, sourceURL)
	return r.find(row, sourceURL)
}

// FindByID retrieves an entry by id.
func (r *IndexRepoImpl) FindByID(ctx context.Context, id string) (*entity.IndexEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+indexColumns+` FROM brand_index WHERE id = $1`, id)
	return r.find(row, id)
}

func (r *IndexRepoImpl) find(row pgx.Row, key string) (*entity.IndexEntry, error) {
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(repository.ErrIndexEntryNotFound, "lookup %s", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "lookup index entry %s", key)
	}
	return entry, nil
}

// Update applies a status transition. Empty fields keep their stored value.
func (r *IndexRepoImpl) Update(ctx context.Context, id string, u entity.IndexUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE brand_index SET
			status = COALESCE(NULLIF($2::text, ''), status),
			session_id = COALESCE(NULLIF($3::text, ''), session_id),
			record_id = COALESCE(NULLIF($4::text, ''), record_id),
			failure_reason = COALESCE(NULLIF($5::text, ''), failure_reason),
			attempts = attempts + CASE WHEN $6::boolean THEN 1 ELSE 0 END,
			last_scraped_at = CASE WHEN $6 THEN NOW() ELSE last_scraped_at END,
			updated_at = NOW()
		WHERE id = $1`,
		id, u.Status, u.SessionID, u.RecordID, u.FailureReason, u.Scraped)
	if err != nil {
		return eris.Wrapf(err, "update index entry %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(repository.ErrIndexEntryNotFound, "update %s", id)
	}
	return nil
}

func scanEntry(row pgx.Row) (*entity.IndexEntry, error) {
	var e entity.IndexEntry
	err := row.Scan(
		&e.ID,
		&e.SourceURL,
		&e.Status,
		&e.SessionID,
		&e.RecordID,
		&e.FailureReason,
		&e.Attempts,
		&e.LastScrapedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
