package query

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// StructuredQuery is a validated query over one domain.
// Values are only built through Registry methods, which enforce that the
// operation is legal for the domain and that filter and sort fields are known.
type StructuredQuery struct {
	domain      Domain
	operation   Operation
	filter      map[string]any
	starting    string
	destination string
	airline     string
	join        bool
	sort        *Sort
	page        Page
}

// All builds an unconditional query.
func (r *Registry) All(d Domain, page Page, s *Sort) (StructuredQuery, error) {
	q := StructuredQuery{domain: d, operation: All, page: page}
	return r.finish(q, s)
}

// ByRoute builds a departure/arrival query over flights. Codes are trimmed and uppercased.
func (r *Registry) ByRoute(starting, destination string, page Page, s *Sort) (StructuredQuery, error) {
	starting = strings.ToUpper(strings.TrimSpace(starting))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if starting == "" || destination == "" {
		return StructuredQuery{}, fmt.Errorf("route requires starting and destination airports")
	}
	q := StructuredQuery{
		domain:      Flights,
		operation:   ByRoute,
		starting:    starting,
		destination: destination,
		page:        page,
	}
	return r.finish(q, s)
}

// ByAirline builds an airline substring query over segments.
// With join the result is the parent flight records.
func (r *Registry) ByAirline(airline string, join bool, page Page, s *Sort) (StructuredQuery, error) {
	airline = strings.TrimSpace(airline)
	if airline == "" {
		return StructuredQuery{}, fmt.Errorf("airline is required")
	}
	q := StructuredQuery{
		domain:    Segments,
		operation: ByAirline,
		airline:   airline,
		join:      join,
		page:      page,
	}
	return r.finish(q, s)
}

// ByFilter builds an exact-match query. Every key must be a known field of d.
func (r *Registry) ByFilter(d Domain, filter map[string]any, page Page, s *Sort) (StructuredQuery, error) {
	if len(filter) == 0 {
		return StructuredQuery{}, fmt.Errorf("filter is empty")
	}
	cp := make(map[string]any, len(filter))
	for k, v := range filter {
		if !r.IsKnownField(d, k) {
			return StructuredQuery{}, fmt.Errorf("unknown field %q for %s", k, d)
		}
		cp[k] = v
	}
	q := StructuredQuery{domain: d, operation: ByFilter, filter: cp, page: page}
	return r.finish(q, s)
}

func (r *Registry) finish(q StructuredQuery, s *Sort) (StructuredQuery, error) {
	if !q.domain.IsValid() {
		return StructuredQuery{}, fmt.Errorf("invalid domain: %q", q.domain)
	}
	if !r.Allows(q.domain, q.operation) {
		return StructuredQuery{}, fmt.Errorf("operation %s not allowed for %s", q.operation, q.domain)
	}
	if q.page.limit <= 0 {
		q.page = DefaultPage()
	}
	if s != nil {
		if !s.Direction.IsValid() {
			return StructuredQuery{}, fmt.Errorf("invalid sort direction: %q", s.Direction)
		}
		if !r.IsKnownField(q.ResultDomain(), s.Field) {
			return StructuredQuery{}, fmt.Errorf("unknown sort field %q for %s", s.Field, q.ResultDomain())
		}
		cp := *s
		q.sort = &cp
	}
	return q, nil
}

// Domain returns the targeted domain.
func (q StructuredQuery) Domain() Domain { return q.domain }

// Operation returns the query shape.
func (q StructuredQuery) Operation() Operation { return q.operation }

// Filter returns a copy of the exact-match conditions (BY_FILTER only).
func (q StructuredQuery) Filter() map[string]any {
	if q.filter == nil {
		return nil
	}
	cp := make(map[string]any, len(q.filter))
	for k, v := range q.filter {
		cp[k] = v
	}
	return cp
}

// Starting returns the departure airport code (BY_ROUTE only).
func (q StructuredQuery) Starting() string { return q.starting }

// Destination returns the arrival airport code (BY_ROUTE only).
func (q StructuredQuery) Destination() string { return q.destination }

// Airline returns the airline substring (BY_AIRLINE only).
func (q StructuredQuery) Airline() string { return q.airline }

// Join reports whether BY_AIRLINE resolves segments back to flights.
func (q StructuredQuery) Join() bool { return q.join }

// Sort returns the ordering, or nil.
func (q StructuredQuery) Sort() *Sort {
	if q.sort == nil {
		return nil
	}
	cp := *q.sort
	return &cp
}

// Page returns the limit/skip pair.
func (q StructuredQuery) Page() Page { return q.page }

// Limit returns the maximum number of records.
func (q StructuredQuery) Limit() int { return q.page.limit }

// Skip returns the number of records to skip.
func (q StructuredQuery) Skip() int { return q.page.skip }

// ResultDomain is the domain of the returned records.
func (q StructuredQuery) ResultDomain() Domain {
	if q.operation == ByAirline && q.join {
		return Flights
	}
	return q.domain
}

// FindOptions returns the store paging and ordering for this query.
func (q StructuredQuery) FindOptions() FindOptions {
	return FindOptions{Limit: q.page.limit, Skip: q.page.skip, Sort: q.Sort()}
}

type sortJSON struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

type structuredJSON struct {
	Domain      Domain         `json:"domain"`
	Operation   Operation      `json:"operation"`
	Filter      map[string]any `json:"filter,omitempty"`
	Starting    string         `json:"starting,omitempty"`
	Destination string         `json:"destination,omitempty"`
	Airline     string         `json:"airline,omitempty"`
	Join        bool           `json:"join,omitempty"`
	Sort        *sortJSON      `json:"sort,omitempty"`
	Limit       int            `json:"limit"`
	Skip        int            `json:"skip"`
}

// MarshalJSON renders the query for diagnostics.
func (q StructuredQuery) MarshalJSON() ([]byte, error) {
	v := structuredJSON{
		Domain:      q.domain,
		Operation:   q.operation,
		Filter:      q.filter,
		Starting:    q.starting,
		Destination: q.destination,
		Airline:     q.airline,
		Join:        q.join,
		Limit:       q.page.limit,
		Skip:        q.page.skip,
	}
	if q.sort != nil {
		v.Sort = &sortJSON{Field: q.sort.Field, Direction: q.sort.Direction}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal structured query: %w", err)
	}
	return b, nil
}

// String renders a compact, deterministic description for logs.
func (q StructuredQuery) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s", q.domain, q.operation)
	switch q.operation {
	case ByRoute:
		fmt.Fprintf(&b, " %s->%s", q.starting, q.destination)
	case ByAirline:
		fmt.Fprintf(&b, " airline=%q join=%t", q.airline, q.join)
	case ByFilter:
		keys := make([]string, 0, len(q.filter))
		for k := range q.filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, q.filter[k])
		}
	}
	if q.sort != nil {
		fmt.Fprintf(&b, " sort=%s:%s", q.sort.Field, q.sort.Direction)
	}
	fmt.Fprintf(&b, " limit=%d skip=%d", q.page.limit, q.page.skip)
	return b.String()
}
