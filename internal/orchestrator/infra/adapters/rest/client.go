// Package rest implements the upstream gateways over plain HTTP/JSON.
//
// Every call is bounded by the configured per-call timeout, carries the
// correlation header, and returns a normalized ports.UpstreamResult. A
// non-nil error means no HTTP response was obtained at all (timeout,
// connection failure); HTTP responses of any status come back as results.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/commercekit/order-orchestrator/internal/orchestrator/core/ports"
	"github.com/commercekit/order-orchestrator/internal/pkg/correlation"
	"github.com/commercekit/order-orchestrator/internal/pkg/metrics"
)

// newHTTPClient builds the shared transport for upstream calls. Connections
// are reused aggressively because the orchestrator talks to exactly two
// hosts. The overall deadline comes from the per-call context, not from
// http.Client.Timeout.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// client is the shared machinery behind both gateways.
type client struct {
	base    string
	target  string // metrics label, e.g. "customers"
	httpc   *http.Client
	timeout time.Duration
}

// call performs one upstream request. bearer goes into the Authorization
// header; body, when non-nil, is sent as JSON; extra headers are applied as
// given. The response body is drained fully and normalized.
func (c *client) call(ctx context.Context, method, path, bearer string, body any, extra map[string]string) (ports.UpstreamResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return ports.UpstreamResult{}, fmt.Errorf("rest: encode request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return ports.UpstreamResult{}, fmt.Errorf("rest: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	if id := correlation.FromContext(ctx); id != "" {
		req.Header.Set(correlation.Header, id)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	start := time.Now()
	res, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveUpstream(c.target, 0, time.Since(start))
		return ports.UpstreamResult{}, fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	text, err := io.ReadAll(res.Body)
	metrics.ObserveUpstream(c.target, res.StatusCode, time.Since(start))
	if err != nil {
		return ports.UpstreamResult{}, fmt.Errorf("rest: read response of %s %s: %w", method, path, err)
	}

	return ports.UpstreamResult{
		OK:     res.StatusCode >= 200 && res.StatusCode < 300,
		Status: res.StatusCode,
		Body:   decodeBody(text),
	}, nil
}

// decodeBody parses the response body as JSON, falling back to a raw-text
// wrapper so diagnostic details survive non-JSON upstream errors verbatim.
func decodeBody(text []byte) any {
	if len(text) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(text, &v); err != nil {
		return map[string]any{"raw": string(text)}
	}
	return v
}
