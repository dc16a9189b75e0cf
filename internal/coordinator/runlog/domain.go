// Package runlog defines the domain types for the orchestration run log.
//
// The run log is an append-only audit trail of the state transitions one
// orchestration attempt goes through. It exists for observability only: the
// sequencer never reads it back, and nothing is resumed or retried from it.
// A row can be joined with upstream logs via the run identifier (the
// correlation id) and with a distributed trace via the trace_id field.
package runlog

import "time"

// Status is the lifecycle state of an orchestration attempt.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusDegraded  Status = "DEGRADED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Entry is a single row in the run_logs table, a point-in-time snapshot of
// one orchestration attempt.
type Entry struct {
	// RunID identifies the orchestration attempt. It is the correlation id,
	// so log rows can be joined with upstream service logs directly.
	RunID string

	// Status is the lifecycle state at the time this row was written.
	Status Status

	// Step is the name of the step that just executed, failed, or degraded.
	// Empty on the STARTED and COMPLETED rows.
	Step string

	// Error holds the failure reason on FAILED and DEGRADED rows.
	Error string

	// TraceID is the W3C trace id of the OpenTelemetry span active when the
	// entry was written, empty when tracing is not configured.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// UpdatedAt is the wall-clock time of this entry.
	UpdatedAt time.Time
}
