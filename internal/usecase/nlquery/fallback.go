package nlquery

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

const airportCodeLen = 3

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

var knownCarriers = []string{
	"delta", "american", "united", "southwest", "jetblue",
	"frontier", "alaska", "spirit", "hawaiian", "allegiant",
}

var airlineNouns = map[string]bool{"airline": true, "airlines": true, "carrier": true}

var carrierSuffixes = map[string]bool{"airlines": true, "airways": true}

var segmentWords = []string{"segment", "segments", "leg", "legs"}

// notNames are words that can sit next to an airline noun without naming a carrier.
var notNames = map[string]bool{
	"the": true, "a": true, "an": true, "all": true, "any": true, "by": true, "on": true,
	"with": true, "for": true, "of": true, "and": true, "to": true, "from": true, "is": true,
	"are": true, "which": true, "what": true, "show": true, "me": true, "list": true,
	"flight": true, "flights": true, "fly": true, "flies": true, "flying": true,
	"operate": true, "operates": true, "serve": true, "serves": true, "has": true, "have": true,
	"name": true, "names": true, "airline": true, "airlines": true, "airways": true,
}

// Fallback is the deterministic keyword parser used when the model path fails.
// Parse never rejects.
type Fallback struct {
	reg    *query.Registry
	limits query.Limits
}

// NewFallback creates a Fallback.
func NewFallback(reg *query.Registry, limits query.Limits) *Fallback {
	return &Fallback{reg: reg, limits: limits}
}

// Parse interprets question with an ordered rule list: route, airline, segments, all.
func (f *Fallback) Parse(question string) query.StructuredQuery {
	tokens := tokenRe.FindAllString(strings.ToLower(question), -1)
	page := query.NewPage(limitHint(tokens), 0, f.limits)
	s := sortHint(tokens)

	if from, to, ok := routeTokens(tokens); ok {
		if q, err := f.reg.ByRoute(airportCode(from), airportCode(to), page, s); err == nil {
			return q
		}
	}
	if airline, ok := airlineName(tokens); ok {
		if q, err := f.reg.ByAirline(airline, true, page, s); err == nil {
			return q
		}
	}
	if hasAny(tokens, segmentWords) {
		if q, err := f.reg.All(query.Segments, page, nil); err == nil {
			return q
		}
	}
	if q, err := f.reg.All(query.Flights, page, s); err == nil {
		return q
	}
	q, _ := f.reg.All(query.Flights, query.DefaultPage(), nil)
	return q
}

// routeTokens finds "from X to Y" or "between X and Y".
func routeTokens(tokens []string) (string, string, bool) {
	if a, b, ok := connective(tokens, "from", "to"); ok {
		return a, b, true
	}
	return connective(tokens, "between", "and")
}

func connective(tokens []string, open, sep string) (string, string, bool) {
	for i, t := range tokens {
		if t != open {
			continue
		}
		for j := i + 2; j < len(tokens)-1; j++ {
			if tokens[j] == sep {
				return tokens[i+1], tokens[j+1], true
			}
		}
	}
	return "", "", false
}

// airportCode uppercases a token and fits it to exactly three characters.
func airportCode(tok string) string {
	code := strings.ToUpper(tok)
	if len(code) > airportCodeLen {
		return code[:airportCodeLen]
	}
	return code + strings.Repeat("X", airportCodeLen-len(code))
}

func airlineName(tokens []string) (string, bool) {
	for _, t := range tokens {
		if slices.Contains(knownCarriers, t) {
			return t, true
		}
	}
	for i, t := range tokens {
		if airlineNouns[t] && i+1 < len(tokens) && !notNames[tokens[i+1]] {
			return tokens[i+1], true
		}
		if carrierSuffixes[t] && i > 0 && !notNames[tokens[i-1]] {
			return tokens[i-1], true
		}
	}
	return "", false
}

func sortHint(tokens []string) *query.Sort {
	for i, t := range tokens {
		least := i > 0 && tokens[i-1] == "least"
		switch t {
		case "cheapest", "cheap", "cheaper", "lowest", "budget":
			return &query.Sort{Field: query.FieldTotalFare, Direction: query.Asc}
		case "expensive", "priciest", "costliest":
			if least {
				return &query.Sort{Field: query.FieldTotalFare, Direction: query.Asc}
			}
			return &query.Sort{Field: query.FieldTotalFare, Direction: query.Desc}
		case "shortest", "fastest", "quickest":
			return &query.Sort{Field: query.FieldTotalTripDuration, Direction: query.Asc}
		case "longest", "slowest":
			return &query.Sort{Field: query.FieldTotalTripDuration, Direction: query.Desc}
		}
	}
	return nil
}

func limitHint(tokens []string) int {
	for i := 0; i+1 < len(tokens); i++ {
		switch tokens[i] {
		case "top", "first", "limit":
			n, err := strconv.Atoi(tokens[i+1])
			if err == nil {
				return n
			}
			// Tokens are unsigned digit runs, so a range error means too large.
			if errors.Is(err, strconv.ErrRange) {
				return math.MaxInt
			}
		}
	}
	return 0
}

func hasAny(tokens, words []string) bool {
	for _, t := range tokens {
		if slices.Contains(words, t) {
			return true
		}
	}
	return false
}
