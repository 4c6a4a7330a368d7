package chi

import (
	"time"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
	domusage "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/usage"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed ErrorCode = "method_not_allowed"
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QueryRequest is the body of the natural-language endpoints.
type QueryRequest struct {
	Question string `json:"question"`
}

// MetaResponse is pipeline diagnostics.
type MetaResponse struct {
	Query          query.StructuredQuery `json:"query"`
	Source         string                `json:"source"`
	MatchMode      string                `json:"match_mode,omitempty"`
	UsedFallback   bool                  `json:"used_fallback"`
	FallbackReason string                `json:"fallback_reason,omitempty"`
	Repairs        []string              `json:"repairs,omitempty"`
}

// QueryResponse is the result of POST /api/v1/query.
type QueryResponse struct {
	Records []domain.Record `json:"records"`
	Meta    MetaResponse    `json:"meta"`
}

// TranslateResponse is the result of POST /api/v1/query/translate.
type TranslateResponse struct {
	Query query.StructuredQuery `json:"query"`
	Meta  MetaResponse          `json:"meta"`
}

// RecordListResponse is a page of flight or segment records.
type RecordListResponse struct {
	Items     []domain.Record `json:"items"`
	Count     int             `json:"count"`
	Limit     int             `json:"limit"`
	Skip      int             `json:"skip"`
	MatchMode string          `json:"match_mode,omitempty"`
}

// HotelReview is one hotel review row.
type HotelReview struct {
	HotelName    string  `json:"hotel_name"`
	County       string  `json:"county"`
	State        string  `json:"state"`
	Rating       float64 `json:"rating"`
	SleepQuality float64 `json:"sleep_quality"`
	Service      float64 `json:"service"`
	Rooms        float64 `json:"rooms"`
	Cleanliness  float64 `json:"cleanliness"`
	Value        float64 `json:"value"`
}

// HotelListResponse is a list of hotel reviews.
type HotelListResponse struct {
	Items []HotelReview `json:"items"`
	Count int           `json:"count"`
}

// BudgetStatus is the completion token budget in a usage report.
type BudgetStatus struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageResponse is the result of GET /api/v1/usage.
type UsageResponse struct {
	Period        string       `json:"period"`
	Provider      string       `json:"provider,omitempty"`
	Tokens        int64        `json:"tokens"`
	Budget        BudgetStatus `json:"budget"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
}

// HealthResponse is the result of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func metaToResponse(m nlquery.Meta) MetaResponse {
	return MetaResponse{
		Query:          m.Query,
		Source:         string(m.Source),
		MatchMode:      string(m.MatchMode),
		UsedFallback:   m.UsedFallback,
		FallbackReason: string(m.FallbackReason),
		Repairs:        m.Repairs,
	}
}

func hotelsToResponse(reviews []domhotel.Review) HotelListResponse {
	items := make([]HotelReview, len(reviews))
	for i, r := range reviews {
		items[i] = HotelReview{
			HotelName:    r.HotelName,
			County:       r.County,
			State:        r.State,
			Rating:       r.Rating,
			SleepQuality: r.SleepQuality,
			Service:      r.Service,
			Rooms:        r.Rooms,
			Cleanliness:  r.Cleanliness,
			Value:        r.Value,
		}
	}
	return HotelListResponse{Items: items, Count: len(items)}
}

func usageToResponse(r domusage.Report) UsageResponse {
	b := r.Budget()
	resp := UsageResponse{
		Period:   string(r.Period()),
		Provider: r.Provider(),
		Tokens:   r.TokensUsed(),
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
		},
	}
	if r.PeriodStart() > 0 {
		start := time.UnixMilli(r.PeriodStart()).UTC()
		end := time.UnixMilli(r.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if b.ResetsAt() > 0 {
		at := time.UnixMilli(b.ResetsAt()).UTC()
		resp.Budget.ResetsAt = &at
	}
	return resp
}
