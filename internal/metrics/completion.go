package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chatdb"

// Completion Prometheus metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_requests_total",
			Help:      "Total number of completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider", "model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	CompletionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Total completion errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	CompletionBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completion_budget_tokens_remaining",
			Help:      "Remaining completion token budget",
		},
		[]string{"provider", "period"},
	)
)

var registerCompletionOnce sync.Once

// RegisterCompletionMetrics registers the completion metrics with the default registry.
// Safe to call from every app.New, concurrently.
func RegisterCompletionMetrics() {
	registerCompletionOnce.Do(func() {
		prometheus.MustRegister(
			CompletionRequestsTotal,
			CompletionRequestDuration,
			CompletionTokensTotal,
			CompletionErrorsTotal,
			CompletionBudgetTokensRemaining,
		)
	})
}
