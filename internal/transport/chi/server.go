package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
	domusage "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/usage"
	healthuc "github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/health"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
)

const maxBodyBytes = 64 << 10

// QueryService is the flight pipeline.
type QueryService interface {
	Translate(ctx context.Context, question string) nlquery.Meta
	TranslateAndExecute(ctx context.Context, question string) (nlquery.Result, error)
	Execute(ctx context.Context, q query.StructuredQuery) (nlquery.Result, error)
	FlightDetails(ctx context.Context, id string) (domain.Record, error)
}

// HotelService reads hotel reviews.
type HotelService interface {
	List(ctx context.Context, county, state string, minRating float64, limit int) ([]domhotel.Review, error)
	ByCounty(ctx context.Context, county string, limit int) ([]domhotel.Review, error)
	ByState(ctx context.Context, state string, limit int) ([]domhotel.Review, error)
}

// UsageService reports completion token usage.
type UsageService interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthService aggregates dependency checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	reg     *query.Registry
	limits  query.Limits
	queries QueryService
	hotels  HotelService
	usage   UsageService
	health  HealthService
	logger  *zap.Logger
}

// NewServer creates an HTTP API server. A nil hotels service leaves the hotel routes unmounted.
func NewServer(
	reg *query.Registry,
	limits query.Limits,
	queries QueryService,
	hotels HotelService,
	usage UsageService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		reg:     reg,
		limits:  limits,
		queries: queries,
		hotels:  hotels,
		usage:   usage,
		health:  health,
		logger:  logger,
	}
}

// Query handles POST /api/v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.queries.TranslateAndExecute(ctx, question)
	setCompletionHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Records: nonNil(res.Records),
		Meta:    metaToResponse(res.Meta),
	})
}

// Translate handles POST /api/v1/query/translate.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	meta := s.queries.Translate(ctx, question)
	setCompletionHeaders(w, usage)

	writeJSON(w, http.StatusOK, TranslateResponse{Query: meta.Query, Meta: metaToResponse(meta)})
}

// ListFlights handles GET /api/v1/flights.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	page, sort, ok := s.bindPaging(w, r, query.Flights)
	if !ok {
		return
	}
	s.execute(w, r, func() (query.StructuredQuery, error) {
		return s.reg.All(query.Flights, page, sort)
	})
}

// ListSegments handles GET /api/v1/flights/segments.
func (s *Server) ListSegments(w http.ResponseWriter, r *http.Request) {
	page, sort, ok := s.bindPaging(w, r, query.Segments)
	if !ok {
		return
	}
	s.execute(w, r, func() (query.StructuredQuery, error) {
		return s.reg.All(query.Segments, page, sort)
	})
}

// FlightsByAirports handles GET /api/v1/flights/airports.
func (s *Server) FlightsByAirports(w http.ResponseWriter, r *http.Request) {
	var starting, destination string
	if !bindRequired(w, r, "starting", &starting) || !bindRequired(w, r, "destination", &destination) {
		return
	}
	page, sort, ok := s.bindPaging(w, r, query.Flights)
	if !ok {
		return
	}
	s.execute(w, r, func() (query.StructuredQuery, error) {
		return s.reg.ByRoute(starting, destination, page, sort)
	})
}

// FlightsByAirline handles GET /api/v1/flights/airline.
func (s *Server) FlightsByAirline(w http.ResponseWriter, r *http.Request) {
	var airline string
	if !bindRequired(w, r, "airline", &airline) {
		return
	}
	page, sort, ok := s.bindPaging(w, r, query.Flights)
	if !ok {
		return
	}
	s.execute(w, r, func() (query.StructuredQuery, error) {
		return s.reg.ByAirline(airline, true, page, sort)
	})
}

// FlightByID handles GET /api/v1/flights/id/{id}.
func (s *Server) FlightByID(w http.ResponseWriter, r *http.Request) {
	rec, err := s.queries.FlightDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListHotels handles GET /api/v1/hotels.
func (s *Server) ListHotels(w http.ResponseWriter, r *http.Request) {
	var county, state *string
	var minRating *float64
	var limit *int
	if !bindOptional(w, r, "county", &county) || !bindOptional(w, r, "state", &state) ||
		!bindOptional(w, r, "min_rating", &minRating) || !bindOptional(w, r, "limit", &limit) {
		return
	}

	reviews, err := s.hotels.List(r.Context(), deref(county), deref(state), deref(minRating), deref(limit))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelsToResponse(reviews))
}

// HotelsByCounty handles GET /api/v1/hotels/county/{county}.
func (s *Server) HotelsByCounty(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if !bindOptional(w, r, "limit", &limit) {
		return
	}
	reviews, err := s.hotels.ByCounty(r.Context(), chi.URLParam(r, "county"), deref(limit))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelsToResponse(reviews))
}

// HotelsByState handles GET /api/v1/hotels/state/{state}.
func (s *Server) HotelsByState(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if !bindOptional(w, r, "limit", &limit) {
		return
	}
	reviews, err := s.hotels.ByState(r.Context(), chi.URLParam(r, "state"), deref(limit))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelsToResponse(reviews))
}

// GetUsage handles GET /api/v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if !bindOptional(w, r, "period", &raw) {
		return
	}
	period := domusage.PeriodMonth
	if raw != nil {
		period = domusage.Period(strings.ToLower(*raw))
		if !period.IsValid() {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be one of day, month, total")
			return
		}
	}

	writeJSON(w, http.StatusOK, usageToResponse(s.usage.GetReport(r.Context(), period)))
}

// HealthCheck handles GET /health. Only a failing critical dependency yields 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// execute builds a query and runs it. Builder errors describe caller input.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, build func() (query.StructuredQuery, error)) {
	q, err := build()
	if err != nil {
		handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err))
		return
	}

	res, err := s.queries.Execute(r.Context(), q)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecordListResponse{
		Items:     nonNil(res.Records),
		Count:     len(res.Records),
		Limit:     q.Limit(),
		Skip:      q.Skip(),
		MatchMode: string(res.Meta.MatchMode),
	})
}

// bindPaging reads limit, skip, sort and order. Sort fields resolve against the result domain.
func (s *Server) bindPaging(w http.ResponseWriter, r *http.Request, d query.Domain) (query.Page, *query.Sort, bool) {
	var limit, skip *int
	var sortField, order *string
	if !bindOptional(w, r, "limit", &limit) || !bindOptional(w, r, "skip", &skip) ||
		!bindOptional(w, r, "sort", &sortField) || !bindOptional(w, r, "order", &order) {
		return query.Page{}, nil, false
	}

	if deref(limit) < 0 || deref(skip) < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "limit and skip must not be negative")
		return query.Page{}, nil, false
	}
	page := query.NewPage(deref(limit), deref(skip), s.limits)

	if sortField == nil || *sortField == "" {
		return page, nil, true
	}
	field, ok := s.reg.CanonicalField(d, *sortField)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("unknown sort field %q for %s", *sortField, d))
		return query.Page{}, nil, false
	}
	dir := query.Asc
	if order != nil && *order != "" {
		dir = query.Direction(strings.ToLower(*order))
		if !dir.IsValid() {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "order must be asc or desc")
			return query.Page{}, nil, false
		}
	}
	return page, &query.Sort{Field: field, Direction: dir}, true
}

func bindOptional(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("invalid %s parameter", name))
		return false
	}
	return true
}

func bindRequired(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), dest); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("query parameter %s is required", name))
		return false
	}
	if strings.TrimSpace(*dest) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, fmt.Sprintf("%s must not be empty", name))
		return false
	}
	return true
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req QueryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return "", false
	}
	return req.Question, true
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Completion-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func nonNil(recs []domain.Record) []domain.Record {
	if recs == nil {
		return []domain.Record{}
	}
	return recs
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
