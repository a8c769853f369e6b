package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

const schema = `
CREATE TABLE IF NOT EXISTS brand_records (
	id          TEXT PRIMARY KEY,
	source_url  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'active',
	properties  JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS brand_records_source_url_idx ON brand_records (source_url);
CREATE INDEX IF NOT EXISTS brand_records_status_idx ON brand_records (status);

CREATE TABLE IF NOT EXISTS brand_record_blocks (
	record_id  TEXT NOT NULL REFERENCES brand_records (id),
	position   INT NOT NULL,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL DEFAULT '',
	items      TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (record_id, position)
);

CREATE TABLE IF NOT EXISTS brand_index (
	id              TEXT PRIMARY KEY,
	source_url      TEXT NOT NULL UNIQUE,
	status          TEXT NOT NULL,
	session_id      TEXT NOT NULL DEFAULT '',
	record_id       TEXT NOT NULL DEFAULT '',
	failure_reason  TEXT NOT NULL DEFAULT '',
	attempts        INT NOT NULL DEFAULT 0,
	last_scraped_at TIMESTAMPTZ,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables used by the record store and the brand index.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return eris.Wrap(err, "apply schema")
	}
	return nil
}

// Connect opens a pool and checks that the database answers.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "unable to connect to database")
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "ping database")
	}
	return db, nil
}
