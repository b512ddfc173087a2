package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

const submissionsSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	service_type TEXT NOT NULL,
	message      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'new',
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions (created_at DESC);
`

// SQLiteStore is a SQLite implementation of the SubmissionStore interface.
// Timestamps are stored as Unix nanoseconds so ordering stays numeric.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// submissions table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(submissionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create submissions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

var _ ports.SubmissionStore = (*SQLiteStore)(nil)

// Create persists a new submission
func (s *SQLiteStore) Create(ctx context.Context, submission *core.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, email, phone, service_type, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Phone,
		submission.ServiceType,
		submission.Message,
		string(submission.Status),
		submission.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", core.ErrStoreOperationFailed)
	}
	return nil
}

// ListAll returns all submissions, newest first
func (s *SQLiteStore) ListAll(ctx context.Context) ([]core.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, service_type, message, status, created_at
		 FROM submissions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", core.ErrStoreOperationFailed)
	}
	defer rows.Close()

	var out []core.Submission
	for rows.Next() {
		var submission core.Submission
		var status string
		var createdAt int64
		if err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Phone,
			&submission.ServiceType,
			&submission.Message,
			&status,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", core.ErrStoreOperationFailed)
		}
		submission.Status = core.Status(status)
		submission.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", core.ErrStoreOperationFailed)
	}

	return out, nil
}

// UpdateStatus sets the status of an existing submission
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status core.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update submission status: %w", core.ErrStoreOperationFailed)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission status: %w", core.ErrStoreOperationFailed)
	}
	if affected == 0 {
		return fmt.Errorf("submission %q: %w", id, core.ErrNotFound)
	}

	return nil
}

// Close closes the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
