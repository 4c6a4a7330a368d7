package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query pipeline Prometheus metrics.
var (
	PipelineTranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_translations_total",
			Help:      "Questions translated, by source and fallback reason",
		},
		[]string{"source", "reason"},
	)

	PipelineExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_executions_total",
			Help:      "Structured queries executed, by operation and match mode",
		},
		[]string{"operation", "match_mode", "status"},
	)
)

var registerPipelineOnce sync.Once

// RegisterPipelineMetrics registers the pipeline metrics with the default registry.
// Safe to call from every app.New, concurrently.
func RegisterPipelineMetrics() {
	registerPipelineOnce.Do(func() {
		prometheus.MustRegister(PipelineTranslationsTotal, PipelineExecutionsTotal)
	})
}
