package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/commercekit/order-orchestrator/internal/config"
	"github.com/commercekit/order-orchestrator/internal/coordinator"
	"github.com/commercekit/order-orchestrator/internal/coordinator/runlog"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
	"github.com/commercekit/order-orchestrator/internal/pkg/cache"
	"github.com/commercekit/order-orchestrator/internal/pkg/correlation"
	"github.com/commercekit/order-orchestrator/internal/pkg/metrics"
)

// maxBodyBytes bounds the inbound payload. Order requests are small; a body
// this large is hostile or broken.
const maxBodyBytes = 1 << 20

// Handler owns the orchestration entry point. It validates the payload,
// resolves the correlation context, and hands the remote-call plan to the
// coordinator.
type Handler struct {
	cfg       config.Config
	customers ports.CustomerGateway
	orders    ports.OrderGateway
	runLog    runlog.Repository // nil-safe: audit logging skipped if nil
	replay    cache.ReplayCache // nil-safe: replay skipped if nil
}

// NewHandler wires the handler with its gateways and optional supporting
// infrastructure. runLog and replay may both be nil.
func NewHandler(cfg config.Config, customers ports.CustomerGateway, orders ports.OrderGateway, runLog runlog.Repository, replay cache.ReplayCache) *Handler {
	return &Handler{
		cfg:       cfg,
		customers: customers,
		orders:    orders,
		runLog:    runLog,
		replay:    replay,
	}
}

// CreateAndConfirmOrder runs the full orchestration sequence for one order:
// customer pre-check, credential issuance, create, confirm, best-effort
// customer refresh.
func (h *Handler) CreateAndConfirmOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respond(w, start, Envelope{
			CorrelationID: h.resolveCorrelation(r, ""),
			Error:         errInvalidJSON,
		}, http.StatusBadRequest)
		return
	}

	req, verr := parseOrderRequest(raw)
	if verr != "" {
		h.respond(w, start, Envelope{
			CorrelationID: h.resolveCorrelation(r, ""),
			Error:         verr,
		}, http.StatusBadRequest)
		return
	}

	correlationID := h.resolveCorrelation(r, req.CorrelationID)
	ctx := correlation.WithID(r.Context(), correlationID)

	// Configuration is also checked at startup; this guard keeps the
	// per-request contract when the handler is wired with partial config.
	if missing := h.cfg.Missing(); len(missing) > 0 {
		slog.ErrorContext(ctx, "missing required configuration", "missing", missing)
		h.respond(w, start, Envelope{
			CorrelationID: correlationID,
			Error:         "Missing required configuration",
			Missing:       missing,
		}, http.StatusInternalServerError)
		return
	}

	if env, ok := h.lookupReplay(ctx, req.IdempotencyKey); ok {
		env.CorrelationID = correlationID
		slog.InfoContext(ctx, "replaying cached envelope", "idempotency_key", req.IdempotencyKey)
		h.respond(w, start, env, http.StatusCreated)
		return
	}

	slog.InfoContext(ctx, "starting orchestration", "customer_id", req.CustomerID, "items", len(req.Items))

	precheck := coordinator.NewCustomerPrecheckStep(h.customers, req.CustomerID)
	credential := coordinator.NewIssueCredentialStep(h.cfg.JWTSecret)
	create := coordinator.NewCreateOrderStep(h.orders, credential, req.CustomerID, req.Items)
	confirm := coordinator.NewConfirmOrderStep(h.orders, credential, create, req.IdempotencyKey)
	refresh := coordinator.NewCustomerRefreshStep(h.customers, req.CustomerID)

	sequencer := coordinator.NewSequencer(correlationID, []coordinator.Step{
		precheck, credential, create, confirm, refresh,
	}, h.runLog)

	if abort := sequencer.Run(ctx); abort != nil {
		h.respond(w, start, Envelope{
			CorrelationID:  correlationID,
			Error:          abort.Reason,
			UpstreamStatus: abort.UpstreamStatus,
			Details:        abort.Details,
		}, abort.Status)
		return
	}

	env := Envelope{
		Success:       true,
		CorrelationID: correlationID,
		Data: &Payload{
			Customer: refresh.Customer(),
			Order:    confirm.Confirmed(),
		},
	}
	h.storeReplay(ctx, req.IdempotencyKey, env)
	h.respond(w, start, env, http.StatusCreated)
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// resolveCorrelation picks the correlation identifier for this request:
// the body value when supplied, else the inbound header, else a fresh id.
func (h *Handler) resolveCorrelation(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if id := correlation.FromContext(r.Context()); id != "" {
		return id
	}
	return correlation.NewID()
}

func (h *Handler) respond(w http.ResponseWriter, start time.Time, env Envelope, status int) {
	metrics.OrchestrationsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	metrics.OrchestrationDuration.Observe(time.Since(start).Seconds())
	writeJSON(w, status, env)
}

// lookupReplay returns a previously completed envelope for the key, if the
// replay cache is enabled and holds one. Cache errors degrade to a miss.
func (h *Handler) lookupReplay(ctx context.Context, key string) (Envelope, bool) {
	if h.replay == nil {
		return Envelope{}, false
	}
	buf, err := h.replay.Lookup(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "replay cache lookup failed", "error", err)
		return Envelope{}, false
	}
	if buf == nil {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		slog.WarnContext(ctx, "replay cache entry corrupt", "error", err)
		return Envelope{}, false
	}
	return env, true
}

func (h *Handler) storeReplay(ctx context.Context, key string, env Envelope) {
	if h.replay == nil {
		return
	}
	buf, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := h.replay.Put(ctx, key, buf); err != nil {
		slog.WarnContext(ctx, "replay cache store failed", "error", err)
	}
}
