package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
	"github.com/commercekit/order-orchestrator/internal/pkg/correlation"
)

func TestCustomerClient_GetCustomer(t *testing.T) {
	var gotPath, gotAuth, gotCorrelation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCorrelation = r.Header.Get(correlation.Header)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "name": "Ada"}`))
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL, "static-token", time.Second)
	ctx := correlation.WithID(context.Background(), "corr-1")

	res, err := c.GetCustomer(ctx, 42)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "/internal/customers/42", gotPath)
	assert.Equal(t, "Bearer static-token", gotAuth)
	assert.Equal(t, "corr-1", gotCorrelation)

	body, ok := res.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", body["name"])
}

func TestOrderClient_CreateOrder_SendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "ord-1", "status": "CREATED"}`))
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL, time.Second)
	res, err := c.CreateOrder(context.Background(), "jwt-token", 7, []entity.LineItem{{ProductID: 1, Qty: 2}})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, float64(7), gotBody["customer_id"])
	items, ok := gotBody["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestOrderClient_ConfirmOrder_ForwardsIdempotencyKey(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(HeaderIdempotencyKey)
		w.Write([]byte(`{"id": "ord-1", "status": "CONFIRMED"}`))
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL, time.Second)
	res, err := c.ConfirmOrder(context.Background(), "jwt-token", "ord-1", "abc-1")
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, "/orders/ord-1/confirm", gotPath)
	assert.Equal(t, "abc-1", gotKey)
}

func TestCall_NonJSONBodyWrappedAsRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL, "tok", time.Second)
	res, err := c.GetCustomer(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, res.OK)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, map[string]any{"raw": "upstream exploded"}, res.Body)
}

func TestCall_EmptyBodyIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL, "tok", time.Second)
	res, err := c.GetCustomer(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Nil(t, res.Body)
}

func TestCall_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL, "tok", 50*time.Millisecond)
	_, err := c.GetCustomer(context.Background(), 1)
	assert.Error(t, err)
}

func TestCall_ConnectionRefusedIsTransportError(t *testing.T) {
	c := NewCustomerClient("http://127.0.0.1:1", "tok", time.Second)
	_, err := c.GetCustomer(context.Background(), 1)
	assert.Error(t, err)
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
