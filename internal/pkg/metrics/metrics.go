// Package metrics defines the Prometheus collectors for the orchestrator.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OrchestrationsTotal counts finished orchestrations by client-visible
	// outcome (the response status code).
	OrchestrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrations_total",
			Help: "Total number of orchestration attempts by response status",
		},
		[]string{"status"},
	)

	// OrchestrationDuration observes the end-to-end handler latency.
	OrchestrationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orchestration_duration_seconds",
			Help:    "End-to-end orchestration duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	// UpstreamRequestsTotal counts outbound calls by target service and
	// status class ("2xx", "4xx", "5xx", or "error" for transport failures).
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream calls by target and status class",
		},
		[]string{"target", "class"},
	)

	// UpstreamRequestDuration observes per-call upstream latency by target.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream call duration by target",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)
)

// Register adds all collectors to the given registry. Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		OrchestrationsTotal,
		OrchestrationDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
	)
}

// ObserveUpstream records one outbound call. status <= 0 counts as a
// transport failure.
func ObserveUpstream(target string, status int, elapsed time.Duration) {
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	UpstreamRequestsTotal.WithLabelValues(target, class).Inc()
	UpstreamRequestDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}
