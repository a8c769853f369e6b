package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const defaultQueryLimit = 50

// RecordStoreImpl keeps brand records as a JSONB property set plus ordered
// block rows.
type RecordStoreImpl struct {
	db *pgxpool.Pool
}

// NewRecordStore creates a new instance of RecordStoreImpl.
func NewRecordStore(db *pgxpool.Pool) *RecordStoreImpl {
	return &RecordStoreImpl{db: db}
}

// Create inserts the record and its blocks within a single transaction.
func (r *RecordStoreImpl) Create(ctx context.Context, props map[string]any, blocks []entity.ContentBlock) (string, error) {
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return "", eris.Wrap(err, "encode properties")
	}
	id := uuid.NewString()
	sourceURL, _ := props["sourceUrl"].(string)
	status := statusOf(props, entity.RecordStatusActive)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", eris.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO brand_records (id, source_url, status, properties) VALUES ($1, $2, $3, $4)`,
		id, sourceURL, status, propsJSON)
	if err != nil {
		return "", eris.Wrap(err, "insert brand record")
	}

	if len(blocks) > 0 {
		batch := &pgx.Batch{}
		for i, b := range blocks {
			items := b.Items
			if items == nil {
				items = []string{}
			}
			batch.Queue(`INSERT INTO brand_record_blocks (record_id, position, kind, title, text, items)
			             VALUES ($1, $2, $3, $4, $5, $6)`,
				id, i, b.Kind, b.Title, b.Text, items)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return "", eris.Wrap(err, "insert record blocks")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", eris.Wrap(err, "commit brand record")
	}
	return id, nil
}

// Patch merges props into the stored property set.
func (r *RecordStoreImpl) Patch(ctx context.Context, id string, props map[string]any) error {
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return eris.Wrap(err, "encode properties")
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE brand_records
		 SET properties = properties || $2::jsonb,
		     status = COALESCE(NULLIF($3::text, ''), status),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, propsJSON, statusOf(props, ""))
	if err != nil {
		return eris.Wrapf(err, "patch brand record %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(repository.ErrRecordNotFound, "patch %s", id)
	}
	return nil
}

// Query lists records newest first.
func (r *RecordStoreImpl) Query(ctx context.Context, filter entity.RecordFilter) ([]*entity.BrandRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, status, properties, created_at
		 FROM brand_records
		 WHERE ($1::text = '' OR source_url = $1) AND ($2::text = '' OR status = $2)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		filter.SourceURL, filter.Status, limit)
	if err != nil {
		return nil, eris.Wrap(err, "query brand records")
	}
	defer rows.Close()

	var records []*entity.BrandRecord
	for rows.Next() {
		var (
			id, status string
			propsJSON  []byte
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &status, &propsJSON, &createdAt); err != nil {
			return nil, eris.Wrap(err, "scan brand record")
		}
		rec, err := decodeRecord(id, status, propsJSON, createdAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Archive flips the record's status. Records are never deleted.
func (r *RecordStoreImpl) Archive(ctx context.Context, id string) error {
	return r.Patch(ctx, id, map[string]any{"status": entity.RecordStatusArchived})
}

func decodeRecord(id, status string, propsJSON []byte, createdAt time.Time) (*entity.BrandRecord, error) {
	rec, err := entity.RecordFromProperties(id, propsJSON)
	if err != nil {
		return nil, eris.Wrapf(err, "decode brand record %s", id)
	}
	rec.Status = status
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = createdAt
	}
	return rec, nil
}

func statusOf(props map[string]any, fallback string) string {
	if s, ok := props["status"].(string); ok && s != "" {
		return s
	}
	return fallback
}
