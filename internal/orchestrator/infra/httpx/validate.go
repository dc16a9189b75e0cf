package httpx

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/domain/entity"
)

// Validation error strings. They are part of the client contract: the first
// violated rule is reported verbatim.
const (
	errInvalidJSON    = "Invalid JSON body"
	errNotObject      = "Body must be a JSON object"
	errCustomerID     = "customer_id must be a positive integer"
	errItems          = "items must be a non-empty array"
	errItemFields     = "each item must have positive integer product_id and qty"
	errIdempotencyKey = "idempotency_key is required"
)

// parseOrderRequest validates the raw payload and builds the immutable
// OrderRequest. It returns a non-empty error string naming the first
// violated rule; checks run in a fixed order and short-circuit.
//
// Pure function of its input: no side effects, no network.
func parseOrderRequest(raw []byte) (*entity.OrderRequest, string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	// Numbers stay json.Number so integer checks are exact instead of
	// going through float64.
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, errInvalidJSON
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	customerID, ok := positiveInt(obj["customer_id"])
	if !ok {
		return nil, errCustomerID
	}

	rawItems, ok := obj["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return nil, errItems
	}

	items := make([]entity.LineItem, 0, len(rawItems))
	for _, ri := range rawItems {
		item, ok := ri.(map[string]any)
		if !ok {
			return nil, errItemFields
		}
		productID, okP := positiveInt(item["product_id"])
		qty, okQ := positiveInt(item["qty"])
		if !okP || !okQ {
			return nil, errItemFields
		}
		items = append(items, entity.LineItem{ProductID: productID, Qty: qty})
	}

	key, ok := obj["idempotency_key"].(string)
	if !ok || strings.TrimSpace(key) == "" {
		return nil, errIdempotencyKey
	}

	return &entity.OrderRequest{
		CustomerID:     customerID,
		Items:          items,
		IdempotencyKey: key,
		CorrelationID:  optionalString(obj["correlation_id"]),
	}, ""
}

// positiveInt accepts only JSON numbers with an integral value > 0.
// Strings, floats, booleans, and absent values all fail.
func positiveInt(v any) (int64, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// optionalString coerces a present value to string and ignores absence.
func optionalString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}
