package runlog

import "context"

// Repository is the port for persisting run log entries. The sequencer
// depends on this abstraction, not on SQLite directly, so the implementation
// can be swapped for in-memory (tests) or another store.
type Repository interface {
	// Save persists a new log entry. Each call appends a row; the log is
	// append-only, never upserted.
	Save(ctx context.Context, entry *Entry) error
}
