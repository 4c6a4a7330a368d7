package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
)

// NewRouter mounts the API on a chi router with the standard middleware chain.
func NewRouter(s *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "method not allowed")
	})

	// Public: probes and scrapers do not carry API keys.
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(apiKeys))

		r.Post("/query", s.Query)
		r.Post("/query/translate", s.Translate)

		r.Route("/flights", func(r chi.Router) {
			r.Get("/", s.ListFlights)
			r.Get("/airports", s.FlightsByAirports)
			r.Get("/airline", s.FlightsByAirline)
			r.Get("/segments", s.ListSegments)
			r.Get("/id/{id}", s.FlightByID)
		})

		if s.hotels != nil {
			r.Route("/hotels", func(r chi.Router) {
				r.Get("/", s.ListHotels)
				r.Get("/county/{county}", s.HotelsByCounty)
				r.Get("/state/{state}", s.HotelsByState)
			})
		}

		r.Get("/usage", s.GetUsage)
	})

	return r
}
