package coordinator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
)

type fakeCustomerGateway struct {
	result ports.UpstreamResult
	err    error
	calls  int
}

func (g *fakeCustomerGateway) GetCustomer(ctx context.Context, customerID int64) (ports.UpstreamResult, error) {
	g.calls++
	return g.result, g.err
}

type fakeOrderGateway struct {
	createResult  ports.UpstreamResult
	createErr     error
	confirmResult ports.UpstreamResult
	confirmErr    error

	gotCredential string
	gotOrderID    string
	gotKey        string
}

func (g *fakeOrderGateway) CreateOrder(ctx context.Context, credential string, customerID int64, items []entity.LineItem) (ports.UpstreamResult, error) {
	g.gotCredential = credential
	return g.createResult, g.createErr
}

func (g *fakeOrderGateway) ConfirmOrder(ctx context.Context, credential, orderID, idempotencyKey string) (ports.UpstreamResult, error) {
	g.gotCredential = credential
	g.gotOrderID = orderID
	g.gotKey = idempotencyKey
	return g.confirmResult, g.confirmErr
}

func TestCustomerPrecheckStep_RelaysRejection(t *testing.T) {
	gw := &fakeCustomerGateway{result: ports.UpstreamResult{
		Status: http.StatusNotFound,
		Body:   map[string]any{"error": "not found"},
	}}
	step := NewCustomerPrecheckStep(gw, 42)

	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusBadRequest, abort.Status)
	assert.Equal(t, "Invalid customer (internal check failed)", abort.Reason)
	assert.Equal(t, http.StatusNotFound, abort.UpstreamStatus)
	assert.Equal(t, map[string]any{"error": "not found"}, abort.Details)
}

func TestCustomerPrecheckStep_TransportFailureIsGatewayError(t *testing.T) {
	gw := &fakeCustomerGateway{err: errors.New("dial tcp: connection refused")}
	step := NewCustomerPrecheckStep(gw, 42)

	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusBadGateway, abort.Status)
	assert.Zero(t, abort.UpstreamStatus)
}

func TestIssueCredentialStep(t *testing.T) {
	step := NewIssueCredentialStep("secret")
	step.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.Nil(t, step.Execute(context.Background()))
	assert.NotEmpty(t, step.Credential())
}

func TestIssueCredentialStep_MissingSecretIsConfigError(t *testing.T) {
	step := NewIssueCredentialStep("")
	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusInternalServerError, abort.Status)
}

func TestCreateOrderStep_PassesCredentialAndExtractsID(t *testing.T) {
	gw := &fakeOrderGateway{createResult: ports.UpstreamResult{
		OK:     true,
		Status: http.StatusCreated,
		Body:   map[string]any{"id": "ord-9", "status": "CREATED"},
	}}
	cred := &IssueCredentialStep{credential: "jwt-token"}
	step := NewCreateOrderStep(gw, cred, 42, []entity.LineItem{{ProductID: 7, Qty: 2}})

	require.Nil(t, step.Execute(context.Background()))
	assert.Equal(t, "jwt-token", gw.gotCredential)
	assert.Equal(t, "ord-9", step.OrderID())
}

func TestCreateOrderStep_UpstreamFailureIs502(t *testing.T) {
	gw := &fakeOrderGateway{createResult: ports.UpstreamResult{
		Status: http.StatusServiceUnavailable,
		Body:   map[string]any{"raw": "down"},
	}}
	step := NewCreateOrderStep(gw, &IssueCredentialStep{credential: "t"}, 42, nil)

	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusBadGateway, abort.Status)
	assert.Equal(t, "Failed to create order", abort.Reason)
	assert.Equal(t, http.StatusServiceUnavailable, abort.UpstreamStatus)
}

func TestCreateOrderStep_MissingIDIs502(t *testing.T) {
	gw := &fakeOrderGateway{createResult: ports.UpstreamResult{
		OK:     true,
		Status: http.StatusCreated,
		Body:   map[string]any{"status": "CREATED"},
	}}
	step := NewCreateOrderStep(gw, &IssueCredentialStep{credential: "t"}, 42, nil)

	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusBadGateway, abort.Status)
}

func TestConfirmOrderStep_ForwardsKeyAndStoresBody(t *testing.T) {
	gw := &fakeOrderGateway{confirmResult: ports.UpstreamResult{
		OK:     true,
		Status: http.StatusOK,
		Body:   map[string]any{"id": "ord-9", "status": "confirmed"},
	}}
	cred := &IssueCredentialStep{credential: "jwt-token"}
	created := &CreateOrderStep{orderID: "ord-9"}
	step := NewConfirmOrderStep(gw, cred, created, "abc-1")

	require.Nil(t, step.Execute(context.Background()))
	assert.Equal(t, "ord-9", gw.gotOrderID)
	assert.Equal(t, "abc-1", gw.gotKey)
	assert.Equal(t, map[string]any{"id": "ord-9", "status": "confirmed"}, step.Confirmed())
}

func TestConfirmOrderStep_UpstreamFailureIs502(t *testing.T) {
	gw := &fakeOrderGateway{confirmResult: ports.UpstreamResult{Status: http.StatusConflict}}
	step := NewConfirmOrderStep(gw, &IssueCredentialStep{credential: "t"}, &CreateOrderStep{orderID: "ord-9"}, "abc-1")

	abort := step.Execute(context.Background())

	require.NotNil(t, abort)
	assert.Equal(t, http.StatusBadGateway, abort.Status)
	assert.Equal(t, "Failed to confirm order", abort.Reason)
	assert.Nil(t, step.Confirmed(), "a failed confirmation must not expose a confirmed order")
}

func TestCustomerRefreshStep_IsBestEffort(t *testing.T) {
	step := NewCustomerRefreshStep(&fakeCustomerGateway{err: errors.New("timeout")}, 42)

	assert.True(t, step.BestEffort())
	abort := step.Execute(context.Background())
	require.NotNil(t, abort)
	assert.Nil(t, step.Customer())
}

func TestCustomerRefreshStep_StoresCustomerOnSuccess(t *testing.T) {
	gw := &fakeCustomerGateway{result: ports.UpstreamResult{
		OK:     true,
		Status: http.StatusOK,
		Body:   map[string]any{"id": float64(42), "name": "Ada"},
	}}
	step := NewCustomerRefreshStep(gw, 42)

	require.Nil(t, step.Execute(context.Background()))
	assert.Equal(t, map[string]any{"id": float64(42), "name": "Ada"}, step.Customer())
}

func TestOrderIDFromBody(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
		ok   bool
	}{
		{"string id", map[string]any{"id": "ord-1"}, "ord-1", true},
		{"numeric id", map[string]any{"id": float64(123)}, "123", true},
		{"empty string id", map[string]any{"id": ""}, "", false},
		{"missing id", map[string]any{"status": "CREATED"}, "", false},
		{"non-object body", []any{"x"}, "", false},
		{"nil body", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := orderIDFromBody(tt.body)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
