package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the report index in SQLite. The default DSN is a
// shared in-memory database, so the index lives as long as the process.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	report_id     TEXT PRIMARY KEY,
	document_path TEXT NOT NULL,
	document_type TEXT NOT NULL DEFAULT '',
	workbook_path TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);
`

type reportRow struct {
	Record
	CreatedAtText string `db:"created_at"`
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	row := reportRow{Record: rec, CreatedAtText: rec.CreatedAt.UTC().Format(time.RFC3339Nano)}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO reports (report_id, document_path, document_type, workbook_path, created_at)
		VALUES (:report_id, :document_path, :document_type, :workbook_path, :created_at)
		ON CONFLICT(report_id) DO UPDATE SET
			document_path = excluded.document_path,
			document_type = excluded.document_type,
			workbook_path = excluded.workbook_path,
			created_at    = excluded.created_at`, row)
	if err != nil {
		return fmt.Errorf("upsert report %s: %w", rec.ReportID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, reportID string) (Record, error) {
	var row reportRow
	err := s.db.GetContext(ctx, &row, `
		SELECT report_id, document_path, document_type, workbook_path, created_at
		FROM reports WHERE report_id = ?`, reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(reportID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get report %s: %w", reportID, err)
	}
	rec := row.Record
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAtText); err != nil {
		return Record{}, fmt.Errorf("parse created_at for %s: %w", reportID, err)
	}
	return rec, nil
}
