// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a record of every summarized item in a SQLite
// database so past batches can be listed and exported. Only outcomes and
// summaries are stored; downloaded documents never are.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-reader/pkg/types"
)

const (
	timeLayout   = time.RFC3339Nano
	defaultLimit = 50
)

var itemColumns = []string{
	"batch_id", "idx", "reference", "pdf_url", "title", "status",
	"error", "summary", "provider", "model", "started_at", "finished_at",
}

// Store is the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating the parent
// directory and the schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			reference TEXT NOT NULL,
			pdf_url TEXT,
			title TEXT,
			status TEXT NOT NULL,
			error TEXT,
			summary TEXT,
			provider TEXT,
			model TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			UNIQUE(batch_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_batch_id ON items(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_reference ON items(reference)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one item. Recording the same batch and index again
// replaces the earlier row.
func (s *Store) Record(ctx context.Context, rec types.ItemRecord) error {
	query, args, err := sq.Insert("items").
		Options("OR REPLACE").
		Columns(itemColumns...).
		Values(
			rec.BatchID, rec.Index, rec.Reference, rec.PDFURL, rec.Title, string(rec.Status),
			rec.Error, rec.Summary, rec.Provider, rec.Model,
			rec.StartedAt.UTC().Format(timeLayout), rec.FinishedAt.UTC().Format(timeLayout),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording item %s/%d: %w", rec.BatchID, rec.Index, err)
	}
	return nil
}

// Query filters List and Export. Zero fields match everything.
type Query struct {
	BatchID   string
	Reference string
	Status    types.ItemStatus

	// Limit caps the number of rows; zero means 50, negative means no cap.
	Limit int
}

// List returns matching items, most recently recorded first.
func (s *Store) List(ctx context.Context, q Query) ([]types.ItemRecord, error) {
	b := sq.Select(itemColumns...).From("items").OrderBy("id DESC")
	if q.BatchID != "" {
		b = b.Where(sq.Eq{"batch_id": q.BatchID})
	}
	if q.Reference != "" {
		b = b.Where(sq.Eq{"reference": q.Reference})
	}
	if q.Status != "" {
		b = b.Where(sq.Eq{"status": string(q.Status)})
	}
	switch {
	case q.Limit == 0:
		b = b.Limit(defaultLimit)
	case q.Limit > 0:
		b = b.Limit(uint64(q.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	out := []types.ItemRecord{}
	for rows.Next() {
		rec, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanItem(rows *sql.Rows) (types.ItemRecord, error) {
	var (
		rec               types.ItemRecord
		pdfURL, title     sql.NullString
		errText, summary  sql.NullString
		provider, model   sql.NullString
		status            string
		started, finished string
	)
	if err := rows.Scan(&rec.BatchID, &rec.Index, &rec.Reference, &pdfURL, &title, &status,
		&errText, &summary, &provider, &model, &started, &finished); err != nil {
		return rec, fmt.Errorf("scanning item: %w", err)
	}
	rec.PDFURL = pdfURL.String
	rec.Title = title.String
	rec.Status = types.ItemStatus(status)
	rec.Error = errText.String
	rec.Summary = summary.String
	rec.Provider = provider.String
	rec.Model = model.String

	var err error
	if rec.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return rec, fmt.Errorf("parsing started_at: %w", err)
	}
	if rec.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return rec, fmt.Errorf("parsing finished_at: %w", err)
	}
	return rec, nil
}
