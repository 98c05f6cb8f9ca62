package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_ai_requests_total",
			Help: "AI generation requests by outcome.",
		},
		[]string{"outcome"},
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workspace_ai_request_duration_seconds",
			Help:    "Latency of AI generation requests.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

const (
	outcomeOK          = "ok"
	outcomeError       = "error"
	outcomeRateLimited = "rate_limited"
	outcomeTimeout     = "timeout"
)
