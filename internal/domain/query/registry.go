package query

import (
	"sort"
	"strings"
)

// FieldKind is the value type of a known field.
type FieldKind string

// Field kind constants.
const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
)

// Default backing collections.
const (
	DefaultFlightsCollection  = "flights_basic"
	DefaultSegmentsCollection = "flights_segments"
)

// Collections names the backing collection of each domain.
type Collections struct {
	Flights  string
	Segments string
}

type target struct {
	collection string
	fields     map[string]FieldKind
	ops        []Operation
}

// Registry describes the queryable domains, their fields and legal operations.
// It is immutable after construction and safe for concurrent reads.
type Registry struct {
	domains map[Domain]target
	aliases map[string]Domain
	fields  map[Domain]map[string]string // normalized -> canonical
}

var historicalAliases = map[Domain][]string{
	Flights:  {"flights", "flight", "flights_basic", "basic", "dsci551_project", "itineraries"},
	Segments: {"segments", "segment", "flights_segments", "flight_segments", "airline_segments"},
}

// NewRegistry builds a registry. Empty collection names fall back to the defaults.
func NewRegistry(c Collections) *Registry {
	if c.Flights == "" {
		c.Flights = DefaultFlightsCollection
	}
	if c.Segments == "" {
		c.Segments = DefaultSegmentsCollection
	}

	r := &Registry{
		domains: map[Domain]target{
			Flights: {
				collection: c.Flights,
				fields: map[string]FieldKind{
					FieldOriginalID:         KindString,
					FieldStartingAirport:    KindString,
					FieldDestinationAirport: KindString,
					FieldTotalFare:          KindNumber,
					FieldTotalTripDuration:  KindNumber,
				},
				ops: []Operation{All, ByRoute, ByFilter},
			},
			Segments: {
				collection: c.Segments,
				fields: map[string]FieldKind{
					FieldOriginalID:  KindString,
					FieldAirlineName: KindString,
				},
				ops: []Operation{All, ByAirline, ByFilter},
			},
		},
		aliases: make(map[string]Domain),
		fields:  make(map[Domain]map[string]string),
	}

	for d, names := range historicalAliases {
		for _, n := range names {
			r.aliases[normalizeName(n)] = d
		}
	}
	// Configured collection names win over historical spellings.
	r.aliases[normalizeName(c.Flights)] = Flights
	r.aliases[normalizeName(c.Segments)] = Segments

	for d, t := range r.domains {
		m := make(map[string]string, len(t.fields))
		for f := range t.fields {
			m[normalizeName(f)] = f
		}
		r.fields[d] = m
	}
	return r
}

// DefaultRegistry returns a registry over the default collections.
func DefaultRegistry() *Registry {
	return NewRegistry(Collections{})
}

// ResolveDomain maps a collection alias onto a domain.
func (r *Registry) ResolveDomain(alias string) (Domain, bool) {
	a := strings.TrimSpace(alias)
	a = strings.TrimPrefix(strings.ToLower(a), "db.")
	d, ok := r.aliases[normalizeName(a)]
	return d, ok
}

// Domains returns all domains in stable order.
func (r *Registry) Domains() []Domain {
	return []Domain{Flights, Segments}
}

// Collection returns the backing collection of a domain.
func (r *Registry) Collection(d Domain) string {
	return r.domains[d].collection
}

// KnownFields returns the sorted field names of a domain.
func (r *Registry) KnownFields(d Domain) []string {
	t := r.domains[d]
	out := make([]string, 0, len(t.fields))
	for f := range t.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsKnownField reports whether field is an exact canonical field of d.
func (r *Registry) IsKnownField(d Domain, field string) bool {
	_, ok := r.domains[d].fields[field]
	return ok
}

// CanonicalField resolves a field name case-insensitively.
func (r *Registry) CanonicalField(d Domain, name string) (string, bool) {
	f, ok := r.fields[d][normalizeName(name)]
	return f, ok
}

// FieldKind returns the value kind of a field; "" if unknown.
func (r *Registry) FieldKind(d Domain, field string) FieldKind {
	return r.domains[d].fields[field]
}

// AllowedOperations returns the operations legal for a domain.
func (r *Registry) AllowedOperations(d Domain) []Operation {
	ops := r.domains[d].ops
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}

// Allows reports whether op is legal for d.
func (r *Registry) Allows(d Domain, op Operation) bool {
	for _, o := range r.domains[d].ops {
		if o == op {
			return true
		}
	}
	return false
}

// Aliases returns every accepted alias of d, sorted. Used for prompt construction.
func (r *Registry) Aliases(d Domain) []string {
	seen := map[string]bool{r.domains[d].collection: true}
	out := []string{r.domains[d].collection}
	for _, a := range historicalAliases[d] {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Strings(out[1:])
	return out
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "", ".", "").Replace(s)
}
