// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using database/sql.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aanand-mishra/tool-lending-admin/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the audit table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT    NOT NULL DEFAULT '',
			resource   TEXT    NOT NULL,
			action     TEXT    NOT NULL,
			record_id  INTEGER NOT NULL DEFAULT 0,
			outcome    TEXT    NOT NULL,
			message    TEXT    NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS audit_log_created_at ON audit_log (created_at DESC);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// RecordAudit inserts one audit row. created_at is stored as unix
// nanoseconds so ordering stays exact within the same second.
func (s *SQLite) RecordAudit(ctx context.Context, entry types.AuditEntry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	stmt, err := s.Db.PrepareContext(ctx,
		`INSERT INTO audit_log (request_id, resource, action, record_id, outcome, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("RecordAudit: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		entry.RequestID,
		entry.Resource,
		entry.Action,
		entry.RecordID,
		entry.Outcome,
		entry.Message,
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("RecordAudit: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("RecordAudit: last insert id: %w", err)
	}
	return lastID, nil
}

// ListAudit returns the newest limit rows.
func (s *SQLite) ListAudit(ctx context.Context, limit int) ([]types.AuditEntry, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		`SELECT id, request_id, resource, action, record_id, outcome, message, created_at
		 FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAudit: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ListAudit: query: %w", err)
	}
	defer rows.Close()

	entries := make([]types.AuditEntry, 0)
	for rows.Next() {
		var (
			entry   types.AuditEntry
			created int64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.Resource,
			&entry.Action,
			&entry.RecordID,
			&entry.Outcome,
			&entry.Message,
			&created,
		); err != nil {
			return nil, fmt.Errorf("ListAudit: scan row: %w", err)
		}
		entry.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAudit: rows iteration: %w", err)
	}
	return entries, nil
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}
