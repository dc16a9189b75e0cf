package ports

import (
	"context"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
)

// UpstreamResult is the normalized outcome of one upstream HTTP call. Every
// gateway method returns this shape so the sequencer can decide
// continue-vs-abort uniformly, without knowing which service it talked to.
type UpstreamResult struct {
	// OK is true for any 2xx response.
	OK bool
	// Status is the upstream HTTP status code.
	Status int
	// Body is the parsed JSON response body. Bodies that are not valid JSON
	// are wrapped as {"raw": <text>}; empty bodies yield nil.
	Body any
}

// CustomerGateway reads customers through the customer service's internal
// endpoint, authenticated with the long-lived inter-service credential.
//
// A returned error means the call never produced an HTTP response (transport
// failure or timeout); an unsuccessful response is a result with OK=false.
type CustomerGateway interface {
	GetCustomer(ctx context.Context, customerID int64) (UpstreamResult, error)
}

// OrderGateway writes orders against the order service, authenticated with
// the per-request short-lived service credential passed in by the caller.
type OrderGateway interface {
	CreateOrder(ctx context.Context, credential string, customerID int64, items []entity.LineItem) (UpstreamResult, error)
	// ConfirmOrder confirms a created order. The idempotency key is forwarded
	// unchanged so the order service can de-duplicate repeated confirmations.
	ConfirmOrder(ctx context.Context, credential, orderID, idempotencyKey string) (UpstreamResult, error)
}
