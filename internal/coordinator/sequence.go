// Package coordinator runs the ordered remote-call plan of one orchestration
// attempt: validate customer, issue credential, create order, confirm order,
// refresh customer.
//
// The plan is linear and fail-fast: the first failing step aborts the
// remainder, no step is retried, and nothing is compensated — the one
// exception is a best-effort step, whose failure degrades the result instead
// of aborting.
package coordinator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/commercekit/order-orchestrator/internal/coordinator/runlog"
)

// Abort is the tagged failure outcome of a step. It maps one-to-one onto the
// client-visible error envelope.
type Abort struct {
	// Status is the HTTP status the client should see.
	Status int
	// Reason is the human-readable error string.
	Reason string
	// UpstreamStatus is the upstream HTTP status when the abort relays an
	// upstream response, 0 otherwise.
	UpstreamStatus int
	// Details carries the upstream response body verbatim for diagnostics.
	Details any
}

// Step is a single unit of work in the orchestration plan. Execute returns
// nil to continue, or an Abort describing the failure. A best-effort step's
// Abort is converted into a degradation rather than propagated.
type Step interface {
	Name() string
	Execute(ctx context.Context) *Abort
	BestEffort() bool
}

// Sequencer executes a plan of Steps in strict order.
type Sequencer struct {
	runID  string
	steps  []Step
	log    runlog.Repository // nil-safe: audit logging skipped if nil
	tracer trace.Tracer
}

// NewSequencer builds a sequencer for one orchestration attempt. runID is
// the correlation id, so audit rows join with upstream logs. repo may be
// nil — in that case transitions are not persisted.
func NewSequencer(runID string, steps []Step, repo runlog.Repository) *Sequencer {
	return &Sequencer{
		runID:  runID,
		steps:  steps,
		log:    repo,
		tracer: otel.Tracer("coordinator"),
	}
}

// Run executes the steps sequentially. It returns nil when the plan reached
// the end, or the Abort of the first failing non-best-effort step.
func (s *Sequencer) Run(ctx context.Context) *Abort {
	s.record(ctx, runlog.StatusStarted, "", "")

	for _, step := range s.steps {
		stepCtx, span := s.tracer.Start(ctx, step.Name())
		abort := step.Execute(stepCtx)
		span.End()

		if abort == nil {
			s.record(ctx, runlog.StatusStepDone, step.Name(), "")
			continue
		}

		if step.BestEffort() {
			slog.WarnContext(ctx, "best-effort step degraded",
				"run_id", s.runID, "step", step.Name(), "reason", abort.Reason)
			s.record(ctx, runlog.StatusDegraded, step.Name(), abort.Reason)
			continue
		}

		slog.ErrorContext(ctx, "step failed, aborting",
			"run_id", s.runID, "step", step.Name(),
			"reason", abort.Reason, "upstream_status", abort.UpstreamStatus)
		s.record(ctx, runlog.StatusFailed, step.Name(), abort.Reason)
		return abort
	}

	s.record(ctx, runlog.StatusCompleted, "", "")
	return nil
}

// record appends a run log entry. Audit failures are logged and swallowed:
// the log must never fail an orchestration.
func (s *Sequencer) record(ctx context.Context, status runlog.Status, step, errMsg string) {
	if s.log == nil {
		return
	}
	entry := runlog.NewEntry(ctx, s.runID, status, step, errMsg)
	if err := s.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to save run log entry", "run_id", s.runID, "error", err)
	}
}
