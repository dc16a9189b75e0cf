package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
)

// HeaderIdempotencyKey is the order-service header that de-duplicates
// repeated confirmation attempts.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// OrderClient talks to the order service. Both writes are authenticated with
// the short-lived credential supplied per call.
type OrderClient struct {
	client client
}

var _ ports.OrderGateway = (*OrderClient)(nil)

// NewOrderClient builds a gateway for the order service.
func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		client: client{
			base:    baseURL,
			target:  "orders",
			httpc:   newHTTPClient(),
			timeout: timeout,
		},
	}
}

// CreateOrder creates an order in CREATED state.
func (c *OrderClient) CreateOrder(ctx context.Context, credential string, customerID int64, items []entity.LineItem) (ports.UpstreamResult, error) {
	body := map[string]any{
		"customer_id": customerID,
		"items":       items,
	}
	return c.client.call(ctx, http.MethodPost, "/orders", credential, body, nil)
}

// ConfirmOrder confirms a created order, forwarding the caller's idempotency
// key unchanged.
func (c *OrderClient) ConfirmOrder(ctx context.Context, credential, orderID, idempotencyKey string) (ports.UpstreamResult, error) {
	path := "/orders/" + url.PathEscape(orderID) + "/confirm"
	headers := map[string]string{HeaderIdempotencyKey: idempotencyKey}
	return c.client.call(ctx, http.MethodPost, path, credential, nil, headers)
}
