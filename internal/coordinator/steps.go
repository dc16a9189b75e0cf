package coordinator

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
	"github.com/commercekit/order-orchestrator/internal/pkg/token"
)

// --- CustomerPrecheckStep ---

// CustomerPrecheckStep verifies that the referenced customer exists before
// any order side effect is created. The orchestrator does not interpret why
// the check failed; it relays the upstream status and body verbatim.
type CustomerPrecheckStep struct {
	gateway    ports.CustomerGateway
	customerID int64
}

func NewCustomerPrecheckStep(gateway ports.CustomerGateway, customerID int64) *CustomerPrecheckStep {
	return &CustomerPrecheckStep{gateway: gateway, customerID: customerID}
}

func (s *CustomerPrecheckStep) Name() string     { return "customer_precheck" }
func (s *CustomerPrecheckStep) BestEffort() bool { return false }

func (s *CustomerPrecheckStep) Execute(ctx context.Context) *Abort {
	res, err := s.gateway.GetCustomer(ctx, s.customerID)
	if err != nil {
		return &Abort{Status: http.StatusBadGateway, Reason: "Customer service unavailable"}
	}
	if !res.OK {
		return &Abort{
			Status:         http.StatusBadRequest,
			Reason:         "Invalid customer (internal check failed)",
			UpstreamStatus: res.Status,
			Details:        res.Body,
		}
	}
	return nil
}

// --- IssueCredentialStep ---

// IssueCredentialStep mints the short-lived service credential used by the
// order-service writes. Failure here is a configuration error, not a client
// error.
type IssueCredentialStep struct {
	secret string
	now    func() time.Time

	credential string
}

func NewIssueCredentialStep(secret string) *IssueCredentialStep {
	return &IssueCredentialStep{secret: secret, now: time.Now}
}

func (s *IssueCredentialStep) Name() string     { return "issue_credential" }
func (s *IssueCredentialStep) BestEffort() bool { return false }

func (s *IssueCredentialStep) Execute(ctx context.Context) *Abort {
	signed, err := token.Issue(s.secret, s.now())
	if err != nil {
		return &Abort{Status: http.StatusInternalServerError, Reason: "Failed to issue service credential"}
	}
	s.credential = signed
	return nil
}

// Credential returns the minted token. Valid only after a successful Execute.
func (s *IssueCredentialStep) Credential() string { return s.credential }

// --- CreateOrderStep ---

// CreateOrderStep creates the order in the order service.
type CreateOrderStep struct {
	gateway    ports.OrderGateway
	credential *IssueCredentialStep
	customerID int64
	items      []entity.LineItem

	orderID string
}

func NewCreateOrderStep(gateway ports.OrderGateway, credential *IssueCredentialStep, customerID int64, items []entity.LineItem) *CreateOrderStep {
	return &CreateOrderStep{
		gateway:    gateway,
		credential: credential,
		customerID: customerID,
		items:      items,
	}
}

func (s *CreateOrderStep) Name() string     { return "create_order" }
func (s *CreateOrderStep) BestEffort() bool { return false }

func (s *CreateOrderStep) Execute(ctx context.Context) *Abort {
	res, err := s.gateway.CreateOrder(ctx, s.credential.Credential(), s.customerID, s.items)
	if err != nil {
		return &Abort{Status: http.StatusBadGateway, Reason: "Failed to create order"}
	}
	if !res.OK {
		return &Abort{
			Status:         http.StatusBadGateway,
			Reason:         "Failed to create order",
			UpstreamStatus: res.Status,
			Details:        res.Body,
		}
	}

	id, ok := orderIDFromBody(res.Body)
	if !ok {
		// An order without an identifier cannot be confirmed.
		return &Abort{
			Status:         http.StatusBadGateway,
			Reason:         "Failed to create order",
			UpstreamStatus: res.Status,
			Details:        res.Body,
		}
	}
	s.orderID = id
	return nil
}

// OrderID returns the created order's identifier. Valid only after a
// successful Execute.
func (s *CreateOrderStep) OrderID() string { return s.orderID }

// --- ConfirmOrderStep ---

// ConfirmOrderStep confirms the just-created order, forwarding the caller's
// idempotency key unchanged so the order service can de-duplicate repeated
// confirmations.
type ConfirmOrderStep struct {
	gateway        ports.OrderGateway
	credential     *IssueCredentialStep
	created        *CreateOrderStep
	idempotencyKey string

	confirmed any
}

func NewConfirmOrderStep(gateway ports.OrderGateway, credential *IssueCredentialStep, created *CreateOrderStep, idempotencyKey string) *ConfirmOrderStep {
	return &ConfirmOrderStep{
		gateway:        gateway,
		credential:     credential,
		created:        created,
		idempotencyKey: idempotencyKey,
	}
}

func (s *ConfirmOrderStep) Name() string     { return "confirm_order" }
func (s *ConfirmOrderStep) BestEffort() bool { return false }

func (s *ConfirmOrderStep) Execute(ctx context.Context) *Abort {
	res, err := s.gateway.ConfirmOrder(ctx, s.credential.Credential(), s.created.OrderID(), s.idempotencyKey)
	if err != nil {
		return &Abort{Status: http.StatusBadGateway, Reason: "Failed to confirm order"}
	}
	if !res.OK {
		return &Abort{
			Status:         http.StatusBadGateway,
			Reason:         "Failed to confirm order",
			UpstreamStatus: res.Status,
			Details:        res.Body,
		}
	}
	s.confirmed = res.Body
	return nil
}

// Confirmed returns the confirmation response body. Valid only after a
// successful Execute.
func (s *ConfirmOrderStep) Confirmed() any { return s.confirmed }

// --- CustomerRefreshStep ---

// CustomerRefreshStep re-reads the customer after confirmation to enrich the
// response. It is best-effort: the order is already durably confirmed by the
// time it runs, so its failure omits the customer field instead of failing
// an orchestration that already succeeded. Do not turn this into a hard
// failure; a retry with the same idempotency key must not appear to fail
// after the order went through.
type CustomerRefreshStep struct {
	gateway    ports.CustomerGateway
	customerID int64

	customer any
}

func NewCustomerRefreshStep(gateway ports.CustomerGateway, customerID int64) *CustomerRefreshStep {
	return &CustomerRefreshStep{gateway: gateway, customerID: customerID}
}

func (s *CustomerRefreshStep) Name() string     { return "customer_refresh" }
func (s *CustomerRefreshStep) BestEffort() bool { return true }

func (s *CustomerRefreshStep) Execute(ctx context.Context) *Abort {
	res, err := s.gateway.GetCustomer(ctx, s.customerID)
	if err != nil {
		return &Abort{Reason: "customer refresh failed: " + err.Error()}
	}
	if !res.OK {
		return &Abort{Reason: "customer refresh failed", UpstreamStatus: res.Status}
	}
	s.customer = res.Body
	return nil
}

// Customer returns the refreshed customer body, nil when the refresh was
// skipped or degraded.
func (s *CustomerRefreshStep) Customer() any { return s.customer }

// orderIDFromBody extracts the order identifier from a create response.
// Upstream ids may be JSON strings or numbers; both are rendered as the
// path segment of the confirm call.
func orderIDFromBody(body any) (string, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	switch id := obj["id"].(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
