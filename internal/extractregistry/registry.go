// Package extractregistry keeps a small sqlite-backed ledger of extract
// transactions, giving post-mortem visibility into staging directories
// left behind by a failed commit (spec.md §7, "storage errors during
// iteration propagate out, leaving the staging directory for post-mortem").
package extractregistry

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Status is the lifecycle state of one extract transaction.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCommitted Status = "committed"
	StatusFailed    Status = "failed"
)

// Entry is one row of the ledger.
type Entry struct {
	ExtractID   string
	SchemaName  string
	Status      Status
	StartedAt   time.Time
	CommittedAt *time.Time
}

// Registry wraps a sqlite database tracking extract transactions.
type Registry struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite ledger at path and ensures
// its schema exists.
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("extractregistry: open %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS extracts (
			extract_id   TEXT PRIMARY KEY,
			schema_name  TEXT NOT NULL,
			status       TEXT NOT NULL,
			started_at   TEXT NOT NULL,
			committed_at TEXT
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("extractregistry: migrate: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close closes the underlying database handle.
func (r *Registry) Close() error { return r.db.Close() }

// Start records a new extract transaction as started.
func (r *Registry) Start(extractID, schemaName string, startedAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO extracts (extract_id, schema_name, status, started_at) VALUES (?, ?, ?, ?)`,
		extractID, schemaName, StatusStarted, startedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Commit marks an extract transaction as committed.
func (r *Registry) Commit(extractID string, committedAt time.Time) error {
	res, err := r.db.Exec(
		`UPDATE extracts SET status = ?, committed_at = ? WHERE extract_id = ?`,
		StatusCommitted, committedAt.UTC().Format(time.RFC3339Nano), extractID,
	)
	if err != nil {
		return err
	}
	return checkRowAffected(res, extractID)
}

// Fail marks an extract transaction as failed, leaving its staging
// directory in place for inspection.
func (r *Registry) Fail(extractID string) error {
	res, err := r.db.Exec(`UPDATE extracts SET status = ? WHERE extract_id = ?`, StatusFailed, extractID)
	if err != nil {
		return err
	}
	return checkRowAffected(res, extractID)
}

func checkRowAffected(res sql.Result, extractID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("extractregistry: unknown extract_id %q", extractID)
	}
	return nil
}

// Uncommitted returns every extract transaction still in the started
// state: a staging directory that was never committed or explicitly
// failed, the post-mortem candidates spec.md §7 calls out.
func (r *Registry) Uncommitted() ([]Entry, error) {
	rows, err := r.db.Query(
		`SELECT extract_id, schema_name, status, started_at, committed_at FROM extracts WHERE status = ?`,
		StatusStarted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e           Entry
			startedAt   string
			committedAt sql.NullString
		)
		if err := rows.Scan(&e.ExtractID, &e.SchemaName, &e.Status, &startedAt, &committedAt); err != nil {
			return nil, err
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if committedAt.Valid {
			ts, err := time.Parse(time.RFC3339Nano, committedAt.String)
			if err != nil {
				return nil, err
			}
			e.CommittedAt = &ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
