package runlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry with the trace identifiers extracted from the
// active OpenTelemetry span in ctx. When no span is active (tracing disabled,
// unit tests), both ids are empty strings.
func NewEntry(ctx context.Context, runID string, status Status, step, errMsg string) *Entry {
	entry := &Entry{
		RunID:     runID,
		Status:    status,
		Step:      step,
		Error:     errMsg,
		UpdatedAt: time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}

	return entry
}
