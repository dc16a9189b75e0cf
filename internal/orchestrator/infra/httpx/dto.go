package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the single outbound shape for both success and failure paths.
// Every response carries the correlation identifier so failures can be
// traced across service boundaries.
type Envelope struct {
	Success       bool   `json:"success"`
	CorrelationID string `json:"correlationId"`

	// Data is present on the success path only.
	Data *Payload `json:"data,omitempty"`

	// Error and friends are present on the failure path only.
	Error          string   `json:"error,omitempty"`
	UpstreamStatus int      `json:"upstream_status,omitempty"`
	Details        any      `json:"details,omitempty"`
	Missing        []string `json:"missing,omitempty"`
}

// Payload aggregates the upstream bodies of a successful orchestration.
// Customer is omitted when the post-confirmation refresh degraded.
type Payload struct {
	Customer any `json:"customer,omitempty"`
	Order    any `json:"order"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
