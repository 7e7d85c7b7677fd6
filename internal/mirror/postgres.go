// Package mirror keeps a Postgres copy of the last good record set so the
// board can still serve listings when the source API is down and the cache
// has expired.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"jobmate/board-service/internal/airtable"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_mirror (
	id          TEXT PRIMARY KEY,
	data        JSONB NOT NULL,
	posted_date TEXT NOT NULL DEFAULT '',
	synced_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores raw records in the job_mirror table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a mirror on an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates job_mirror when missing.
func (m *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create job_mirror: %w", err)
	}
	return nil
}

// Save replaces the mirrored set with recs in one transaction.
func (m *Postgres) Save(ctx context.Context, recs []airtable.Record) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			log.Warn().Err(rErr).Msg("mirror: rollback failed")
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM job_mirror`); err != nil {
		return fmt.Errorf("clear job_mirror: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", rec.ID, err)
		}
		posted, _ := rec.Fields["posted_date"].(string)
		batch.Queue(
			`INSERT INTO job_mirror (id, data, posted_date, synced_at)
			 VALUES ($1, $2::jsonb, $3, now())
			 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, posted_date = EXCLUDED.posted_date, synced_at = now()`,
			rec.ID, string(data), posted,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert job_mirror: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns the mirrored records, newest posted_date first.
func (m *Postgres) Load(ctx context.Context) ([]airtable.Record, error) {
	rows, err := m.pool.Query(ctx,
		`SELECT id, data FROM job_mirror ORDER BY posted_date DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query job_mirror: %w", err)
	}
	defer rows.Close()

	var recs []airtable.Record
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var rec airtable.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
