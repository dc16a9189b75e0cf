package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
)

// CustomerClient talks to the customer service's internal endpoint.
type CustomerClient struct {
	client       client
	serviceToken string
}

var _ ports.CustomerGateway = (*CustomerClient)(nil)

// NewCustomerClient builds a gateway for the customer service. serviceToken
// is the long-lived inter-service credential, distinct from the per-request
// short-lived one.
func NewCustomerClient(baseURL, serviceToken string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{
		client: client{
			base:    baseURL,
			target:  "customers",
			httpc:   newHTTPClient(),
			timeout: timeout,
		},
		serviceToken: serviceToken,
	}
}

// GetCustomer reads one customer by id.
func (c *CustomerClient) GetCustomer(ctx context.Context, customerID int64) (ports.UpstreamResult, error) {
	path := fmt.Sprintf("/internal/customers/%d", customerID)
	return c.client.call(ctx, http.MethodGet, path, c.serviceToken, nil, nil)
}
