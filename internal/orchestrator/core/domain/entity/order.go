package entity

// LineItem is one position of an order request.
type LineItem struct {
	ProductID int64 `json:"product_id"`
	Qty       int64 `json:"qty"`
}

// OrderRequest is the validated, immutable form of the inbound payload.
// It is only ever constructed by the request validator and is discarded at
// the end of the request.
type OrderRequest struct {
	CustomerID     int64
	Items          []LineItem
	IdempotencyKey string

	// CorrelationID is the caller-supplied value, empty when absent.
	// Resolution against a generated fallback happens in the handler.
	CorrelationID string
}
