package metrics

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetrics_Idempotent(t *testing.T) {
	RegisterCompletionMetrics()
	RegisterCompletionMetrics()
	RegisterPipelineMetrics()
	RegisterPipelineMetrics()
}

func TestRegisterMetrics_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RegisterCompletionMetrics()
			RegisterPipelineMetrics()
		}()
	}
	wg.Wait()

	// A second registration of the same collector must be rejected, proving the first happened once.
	var are prometheus.AlreadyRegisteredError
	if err := prometheus.Register(PipelineExecutionsTotal); !errors.As(err, &are) {
		t.Errorf("expected AlreadyRegisteredError, got %v", err)
	}
	if err := prometheus.Register(CompletionTokensTotal); !errors.As(err, &are) {
		t.Errorf("expected AlreadyRegisteredError, got %v", err)
	}
}

func TestPipelineCounters(t *testing.T) {
	before := testutil.ToFloat64(PipelineTranslationsTotal.WithLabelValues("fallback", "empty_question"))
	PipelineTranslationsTotal.WithLabelValues("fallback", "empty_question").Inc()
	after := testutil.ToFloat64(PipelineTranslationsTotal.WithLabelValues("fallback", "empty_question"))
	if after-before != 1 {
		t.Errorf("expected increment of 1, got %f", after-before)
	}
}
