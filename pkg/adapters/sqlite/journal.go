// Package sqlite persists the errand run journal in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Journal implements ports.Journal on SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
// ":memory:" is accepted for tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append inserts a run record.
func (j *Journal) Append(ctx context.Context, r domain.Record) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, errand, status, detail, started_at, duration_ns) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Errand, string(r.Status), r.Detail, r.StartedAt.UTC().UnixNano(), int64(r.Duration),
	)
	if err != nil {
		return fmt.Errorf("append run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first. An empty errand matches all.
func (j *Journal) Recent(ctx context.Context, errand string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, errand, status, detail, started_at, duration_ns
		FROM runs
		WHERE (? = '' OR errand = ?)
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`,
		errand, errand, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var (
			r       domain.Record
			status  string
			started int64
			dur     int64
		)
		if err := rows.Scan(&r.ID, &r.Errand, &status, &r.Detail, &started, &dur); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = domain.RunStatus(status)
		r.StartedAt = time.Unix(0, started).UTC()
		r.Duration = time.Duration(dur)
		records = append(records, r)
	}
	return records, rows.Err()
}
