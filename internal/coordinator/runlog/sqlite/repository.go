// Package sqlite provides a SQLite-backed implementation of runlog.Repository.
//
// WAL mode is enabled on Open so that readers never block the writing
// request goroutines when the log is queried out-of-band.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/commercekit/order-orchestrator/internal/coordinator/runlog"

	// Register the pure-Go SQLite driver. We use modernc.org/sqlite instead
	// of mattn/go-sqlite3 to avoid CGO requirements, making it easier to
	// build and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only: each
// row is an immutable event in an orchestration attempt's lifecycle.
const schema = `
CREATE TABLE IF NOT EXISTS run_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Correlation id of the orchestration attempt.
    -- Not UNIQUE: multiple rows exist per run, one per transition.
    run_id      TEXT NOT NULL,

    -- Lifecycle state at the time this row was written.
    status      TEXT NOT NULL,

    -- Name of the step that just executed, failed, or degraded.
    step        TEXT NOT NULL DEFAULT '',

    -- Failure reason on FAILED / DEGRADED rows.
    error       TEXT NOT NULL DEFAULT '',

    -- W3C trace_id / span_id from the active OTel span, if any.
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    updated_at  TEXT NOT NULL
);

-- The common query: "give me all events for run X in order".
CREATE INDEX IF NOT EXISTS idx_run_logs_run_id ON run_logs(run_id, updated_at);

-- The observability query: "find the run for trace Y".
CREATE INDEX IF NOT EXISTS idx_run_logs_trace_id ON run_logs(trace_id);
`

// Repository is the SQLite implementation of runlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Repository, error) {
	// The pure-Go driver configures connection state via _pragma query
	// parameters. WAL enables concurrent readers; busy_timeout waits for
	// locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new run log entry. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *runlog.Entry) error {
	const q = `
		INSERT INTO run_logs
			(run_id, status, step, error, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.RunID,
		string(entry.Status),
		entry.Step,
		entry.Error,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save run log for %q: %w", entry.RunID, err)
	}
	return nil
}

// ListByRun returns every entry for one orchestration attempt in the order
// they were written. Used by out-of-band inspection, never by the sequencer.
func (r *Repository) ListByRun(ctx context.Context, runID string) ([]runlog.Entry, error) {
	const q = `
		SELECT run_id, status, step, error, trace_id, span_id, updated_at
		FROM run_logs
		WHERE run_id = ?
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list run log for %q: %w", runID, err)
	}
	defer rows.Close()

	var entries []runlog.Entry
	for rows.Next() {
		var e runlog.Entry
		var updatedAt string
		if err := rows.Scan(&e.RunID, &e.Status, &e.Step, &e.Error, &e.TraceID, &e.SpanID, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan run log row: %w", err)
		}
		e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", updatedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
