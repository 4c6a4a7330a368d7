package chatdb

import (
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/usecase/nlquery"
)

// Record is one flight or segment document with store ids rendered as strings.
type Record = map[string]any

// Query describes the structured query a question was translated into.
type Query struct {
	Domain        string
	Operation     string
	Filter        map[string]any
	Starting      string
	Destination   string
	Airline       string
	Join          bool
	SortField     string
	SortDirection string
	Limit         int
	Skip          int
	text          string
}

// String returns a compact description of the query.
func (q Query) String() string { return q.text }

// Translation is the outcome of translating a question without running it.
type Translation struct {
	Query            Query
	Source           string // "generator" or "fallback"
	UsedFallback     bool
	FallbackReason   string
	Repairs          []string
	CompletionTokens int
}

// Answer is a translated and executed question.
type Answer struct {
	Translation
	Records   []Record
	MatchMode string // "exact", "relaxed" or "substring"
}

// HotelFilter selects hotel reviews. Zero values mean "any".
type HotelFilter struct {
	County    string
	State     string
	MinRating float64
	Limit     int
}

// Hotel is one hotel review.
type Hotel struct {
	Name         string
	County       string
	State        string
	Rating       float64
	SleepQuality float64
	Service      float64
	Rooms        float64
	Cleanliness  float64
	Value        float64
}

func queryFromDomain(q query.StructuredQuery) Query {
	out := Query{
		Domain:      string(q.Domain()),
		Operation:   string(q.Operation()),
		Filter:      q.Filter(),
		Starting:    q.Starting(),
		Destination: q.Destination(),
		Airline:     q.Airline(),
		Join:        q.Join(),
		Limit:       q.Limit(),
		Skip:        q.Skip(),
		text:        q.String(),
	}
	if s := q.Sort(); s != nil {
		out.SortField = s.Field
		out.SortDirection = string(s.Direction)
	}
	return out
}

func translationFromMeta(m nlquery.Meta, usage *domain.CompletionUsage) Translation {
	t := Translation{
		Query:          queryFromDomain(m.Query),
		Source:         string(m.Source),
		UsedFallback:   m.UsedFallback,
		FallbackReason: string(m.FallbackReason),
		Repairs:        m.Repairs,
	}
	if usage != nil {
		t.CompletionTokens = usage.TotalTokens
	}
	return t
}

func recordsFromDomain(recs []domain.Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = Record(r)
	}
	return out
}

func hotelFromDomain(r domhotel.Review) Hotel {
	return Hotel{
		Name:         r.HotelName,
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
