package nlquery

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// Candidate keys accepted for each part of a query.
var (
	domainKeys      = []string{"collection", "domain", "target", "table"}
	operationKeys   = []string{"operation", "op", "type", "action"}
	filterKeys      = []string{"filter", "query", "where", "conditions"}
	startingKeys    = []string{"starting", "from", "origin", "startingAirport"}
	destinationKeys = []string{"destination", "to", "dest", "destinationAirport"}
	airlineKeys     = []string{"airline", "airlineName", "carrier"}
)

var operationSynonyms = map[string]query.Operation{
	"all":           query.All,
	"findall":       query.All,
	"list":          query.All,
	"listall":       query.All,
	"getall":        query.All,
	"route":         query.ByRoute,
	"byroute":       query.ByRoute,
	"findbyroute":   query.ByRoute,
	"airports":      query.ByRoute,
	"byairports":    query.ByRoute,
	"airline":       query.ByAirline,
	"byairline":     query.ByAirline,
	"findbyairline": query.ByAirline,
	"filter":        query.ByFilter,
	"byfilter":      query.ByFilter,
	"find":          query.ByFilter,
	"where":         query.ByFilter,
	"match":         query.ByFilter,
}

// Validated is a trusted query plus the repairs applied to reach it.
type Validated struct {
	Query   query.StructuredQuery
	Repairs []string
}

// Validator upgrades untrusted candidates into structured queries.
type Validator struct {
	reg    *query.Registry
	limits query.Limits
}

// NewValidator creates a Validator.
func NewValidator(reg *query.Registry, limits query.Limits) *Validator {
	return &Validator{reg: reg, limits: limits}
}

// Validate checks a candidate against the registry and repairs what it can.
// Errors wrap domain.ErrQueryRejected; a partially valid query is never returned.
func (v *Validator) Validate(c query.Candidate) (Validated, error) {
	if len(c) == 0 {
		return Validated{}, domain.NewRejection("empty candidate")
	}
	var repairs []string

	// 1. Domain.
	alias, _ := c.String(domainKeys...)
	if strings.TrimSpace(alias) == "" {
		return Validated{}, domain.NewRejection("missing collection")
	}
	d, ok := v.reg.ResolveDomain(alias)
	if !ok {
		return Validated{}, domain.NewRejection("unknown collection %q", alias)
	}
	if alias != string(d) && alias != v.reg.Collection(d) {
		repairs = append(repairs, fmt.Sprintf("collection alias %q resolved to %s", alias, d))
	}

	var filter map[string]any
	if raw, present := c.Lookup(filterKeys...); present {
		m, isMap := raw.(map[string]any)
		if !isMap {
			repairs = append(repairs, "non-object filter ignored")
		}
		filter = m
	}

	// 2. Operation.
	op, err := v.operation(c, d, filter, &repairs)
	if err != nil {
		return Validated{}, err
	}

	// 4, 5. Paging.
	page := v.page(c, &repairs)

	// 3. Operation parameters, then 6. sort against the result domain.
	var q query.StructuredQuery
	switch op {
	case query.All:
		q, err = v.reg.All(d, page, v.sortSpec(c, d))
	case query.ByRoute:
		q, err = v.byRoute(c, d, filter, page)
	case query.ByAirline:
		q, err = v.byAirline(c, d, filter, page, "")
	case query.ByFilter:
		q, err = v.byFilter(c, d, filter, page, &repairs)
	}
	if err != nil {
		return Validated{}, domain.NewRejection("%v", err)
	}
	return Validated{Query: q, Repairs: repairs}, nil
}

func (v *Validator) operation(
	c query.Candidate, d query.Domain, filter map[string]any, repairs *[]string,
) (query.Operation, error) {
	raw, present := c.String(operationKeys...)
	if !present || strings.TrimSpace(raw) == "" {
		if _, hasAny := c.Lookup(operationKeys...); hasAny {
			return "", domain.NewRejection("operation is not a string")
		}
		op := query.All
		if len(filter) > 0 {
			op = query.ByFilter
		}
		*repairs = append(*repairs, fmt.Sprintf("operation inferred as %s", op))
		return op, nil
	}

	op, ok := normalizeOperation(raw)
	if !ok {
		return "", domain.NewRejection("unknown operation %q", raw)
	}
	if !v.reg.Allows(d, op) {
		return "", domain.NewRejection("operation %s not allowed for %s", op, d)
	}
	return op, nil
}

func normalizeOperation(s string) (query.Operation, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(n)
	op, ok := operationSynonyms[n]
	return op, ok
}

func (v *Validator) page(c query.Candidate, repairs *[]string) query.Page {
	limits := v.limits
	if limits.Max <= 0 {
		limits = query.DefaultLimits()
	}

	limit := 0
	if raw, present := c.Lookup("limit"); present {
		n, ok := toInt(raw)
		switch {
		case !ok || n <= 0:
			*repairs = append(*repairs, fmt.Sprintf("limit %v replaced by default", raw))
		case n > limits.Max:
			*repairs = append(*repairs, fmt.Sprintf("limit %d clamped to %d", n, limits.Max))
			limit = n
		default:
			limit = n
		}
	}

	skip := 0
	if raw, present := c.Lookup("skip", "offset"); present {
		if n, ok := toInt(raw); ok {
			skip = n
		}
	}
	return query.NewPage(limit, skip, limits)
}

func (v *Validator) byRoute(
	c query.Candidate, d query.Domain, filter map[string]any, page query.Page,
) (query.StructuredQuery, error) {
	starting, _ := c.String(startingKeys...)
	if starting == "" {
		starting = v.filterString(d, filter, query.FieldStartingAirport)
	}
	destination, _ := c.String(destinationKeys...)
	if destination == "" {
		destination = v.filterString(d, filter, query.FieldDestinationAirport)
	}
	q, err := v.reg.ByRoute(starting, destination, page, v.sortSpec(c, query.Flights))
	if err != nil {
		return query.StructuredQuery{}, fmt.Errorf("by_route: %w", err)
	}
	return q, nil
}

func (v *Validator) byAirline(
	c query.Candidate, d query.Domain, filter map[string]any, page query.Page, airline string,
) (query.StructuredQuery, error) {
	if airline == "" {
		airline, _ = c.String(airlineKeys...)
	}
	if airline == "" {
		airline = v.filterString(d, filter, query.FieldAirlineName)
	}
	if airline == "" {
		for k, val := range filter {
			if f, ok := v.reg.CanonicalField(d, k); ok && f == query.FieldAirlineName {
				airline = regexLiteral(val)
			}
		}
	}

	join := true
	if b, ok := c["join"].(bool); ok {
		join = b
	}
	resultDomain := query.Segments
	if join {
		resultDomain = query.Flights
	}
	q, err := v.reg.ByAirline(airline, join, page, v.sortSpec(c, resultDomain))
	if err != nil {
		return query.StructuredQuery{}, fmt.Errorf("by_airline: %w", err)
	}
	return q, nil
}

func (v *Validator) byFilter(
	c query.Candidate, d query.Domain, filter map[string]any, page query.Page, repairs *[]string,
) (query.StructuredQuery, error) {
	clean, promoted := v.cleanFilter(d, filter, repairs)

	if promoted != "" && len(clean) == 0 {
		*repairs = append(*repairs, fmt.Sprintf("regex airline filter promoted to %s", query.ByAirline))
		return v.byAirline(c, d, nil, page, promoted)
	}
	if len(clean) == 0 {
		if len(filter) == 0 {
			*repairs = append(*repairs, fmt.Sprintf("empty filter treated as %s", query.All))
		} else {
			*repairs = append(*repairs, fmt.Sprintf("filter emptied by dropped fields; downgraded to %s", query.All))
		}
		q, err := v.reg.All(d, page, v.sortSpec(c, d))
		if err != nil {
			return query.StructuredQuery{}, fmt.Errorf("all: %w", err)
		}
		return q, nil
	}

	q, err := v.reg.ByFilter(d, clean, page, v.sortSpec(c, d))
	if err != nil {
		return query.StructuredQuery{}, fmt.Errorf("by_filter: %w", err)
	}
	return q, nil
}

// cleanFilter keeps known fields with scalar values, coerced to the field kind.
// A $regex condition on the segment airline name is returned as promoted.
func (v *Validator) cleanFilter(
	d query.Domain, filter map[string]any, repairs *[]string,
) (clean map[string]any, promoted string) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clean = make(map[string]any, len(filter))
	for _, k := range keys {
		field, ok := v.reg.CanonicalField(d, k)
		if !ok {
			*repairs = append(*repairs, fmt.Sprintf("dropped unknown field %q", k))
			continue
		}
		if field != k {
			*repairs = append(*repairs, fmt.Sprintf("field %q renamed to %q", k, field))
		}

		raw := filter[k]
		if obj, isObj := raw.(map[string]any); isObj {
			if eq, hasEq := obj["$eq"]; hasEq && len(obj) == 1 {
				raw = eq
			} else if field == query.FieldAirlineName {
				if lit := regexLiteral(obj); lit != "" {
					promoted = lit
					continue
				}
			}
		}

		val, ok := coerce(v.reg.FieldKind(d, field), raw)
		if !ok {
			*repairs = append(*repairs, fmt.Sprintf("dropped unsupported value for %q", field))
			continue
		}
		if field == query.FieldStartingAirport || field == query.FieldDestinationAirport {
			if s, isStr := val.(string); isStr {
				val = strings.ToUpper(s)
			}
		}
		clean[field] = val
	}
	return clean, promoted
}

func (v *Validator) filterString(d query.Domain, filter map[string]any, field string) string {
	for k, val := range filter {
		if f, ok := v.reg.CanonicalField(d, k); ok && f == field {
			if s, isStr := val.(string); isStr {
				return s
			}
		}
	}
	return ""
}

// sortSpec reads {"field","direction"}, {"<field>": 1|-1} or a bare field name.
// Unknown fields yield nil.
func (v *Validator) sortSpec(c query.Candidate, d query.Domain) *query.Sort {
	raw, present := c.Lookup("sort", "orderBy", "order_by")
	if !present {
		return nil
	}

	var field string
	dir := query.Asc
	switch s := raw.(type) {
	case string:
		parts := strings.Fields(s)
		if len(parts) == 0 {
			return nil
		}
		field = parts[0]
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], query.Desc
		}
		if len(parts) > 1 {
			dir = parseDirection(parts[1])
		}
	case map[string]any:
		if f, ok := s["field"].(string); ok {
			field = f
			if dv, ok := s["direction"]; ok {
				dir = parseDirection(dv)
			} else if o, ok := s["order"]; ok {
				dir = parseDirection(o)
			}
			break
		}
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			return nil
		}
		sort.Strings(keys)
		field = keys[0]
		dir = parseDirection(s[field])
	default:
		return nil
	}

	canonical, ok := v.reg.CanonicalField(d, field)
	if !ok {
		return nil
	}
	return &query.Sort{Field: canonical, Direction: dir}
}

func parseDirection(v any) query.Direction {
	if n, ok := toInt(v); ok {
		if n < 0 {
			return query.Desc
		}
		return query.Asc
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "desc", "descending", "-1":
			return query.Desc
		}
	}
	return query.Asc
}

// regexLiteral extracts a plain substring from a {"$regex": ...} condition or a string.
func regexLiteral(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case map[string]any:
		s, _ = t["$regex"].(string)
	}
	s = strings.Trim(s, "^$")
	s = strings.TrimPrefix(s, ".*")
	s = strings.TrimSuffix(s, ".*")
	return strings.TrimSpace(s)
}

func coerce(kind query.FieldKind, v any) (any, bool) {
	switch kind {
	case query.KindNumber:
		switch t := v.(type) {
		case json.Number:
			f, err := t.Float64()
			return f, err == nil
		case float64:
			return t, true
		case int:
			return float64(t), true
		case int64:
			return float64(t), true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			return f, err == nil
		}
	case query.KindString:
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t), strings.TrimSpace(t) != ""
		case json.Number:
			return t.String(), true
		}
	}
	return nil, false
}

// toInt converts JSON-ish numeric values. Fractional values are truncated and
// out-of-range magnitudes saturate at the int bounds.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return floatToInt(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		f, err := t.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return floatToInt(f)
	case string:
		s := strings.TrimSpace(t)
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, true
		}
		if errors.Is(err, strconv.ErrRange) {
			return saturate(strings.HasPrefix(s, "-")), true
		}
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil && !errors.Is(ferr, strconv.ErrRange) {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

func saturate(negative bool) int {
	if negative {
		return math.MinInt
	}
	return math.MaxInt
}
