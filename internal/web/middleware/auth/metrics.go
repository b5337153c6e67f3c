package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var outcomes = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "auth_middleware_outcomes_total",
		Help: "Requests by auth middleware outcome, plus token refresh results.",
	},
	[]string{"outcome"},
)

func observe(o Outcome) {
	outcomes.WithLabelValues(string(o)).Inc()
}
