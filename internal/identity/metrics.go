package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "identity_requests_total",
			Help: "Calls to the identity provider by operation and result code.",
		},
		[]string{"operation", "code"},
	)

	requestDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "identity_request_duration_seconds",
			Help:    "Latency of identity provider calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observe(operation string, code Code, seconds float64) {
	if code == "" {
		code = "OK"
	}

	requestsTotal.WithLabelValues(operation, string(code)).Inc()
	requestDuration.WithLabelValues(operation).Observe(seconds)
}
