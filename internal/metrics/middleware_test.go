package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/flights", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	r.Get("/api/v1/flights/id/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/api/v1/query", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/flights", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/flights", "200")); v < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", v)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := newTestRouter()

	for _, id := range []string{"a1", "b2", "c3"} {
		req := httptest.NewRequest("GET", "/api/v1/flights/id/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/flights/id/{id}", "404"))
	if v < 3 {
		t.Errorf("expected ids to collapse into the route pattern, got %f", v)
	}
}

func TestMiddleware_StatusLabels(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", "/api/v1/query", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/query", "503")); v < 1 {
		t.Errorf("expected 503 to be recorded, got %f", v)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/v1/hotels", "/api/v1/hotels"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestMiddleware_ImplicitOKAndInFlight(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/usage", func(_ http.ResponseWriter, _ *http.Request) {
		if v := testutil.ToFloat64(httpRequestsInFlight); v < 1 {
			t.Errorf("in-flight gauge = %f during request", v)
		}
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/usage", http.NoBody))

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/usage", "200")); v < 1 {
		t.Errorf("expected handler without WriteHeader to count as 200, got %f", v)
	}
}

func TestMiddleware_NoRouteContext(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/raw", http.NoBody))

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "418")); v < 1 {
		t.Errorf("expected unrouted request under \"unknown\", got %f", v)
	}
}
