package nlquery

import (
	"fmt"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

var promptExamples = []struct {
	question string
	answer   string
}{
	{
		"flights from LAX to JFK",
		`{"collection":"flights","operation":"by_route","starting":"LAX","destination":"JFK","limit":20}`,
	},
	{
		"Show me United flights",
		`{"collection":"segments","operation":"by_airline","airline":"United","limit":20}`,
	},
	{
		"the 5 cheapest flights departing ATL",
		`{"collection":"flights","operation":"by_filter","filter":{"startingAirport":"ATL"},` +
			`"sort":{"field":"totalFare","direction":"asc"},"limit":5}`,
	},
}

// BuildSystemPrompt renders the registry into instructions for the model.
func BuildSystemPrompt(reg *query.Registry, defaultLimit int) string {
	var b strings.Builder
	b.WriteString("You translate questions about airline flight data into a JSON query object.\n\n")

	b.WriteString("Collections:\n")
	for _, d := range reg.Domains() {
		fields := reg.KnownFields(d)
		typed := make([]string, len(fields))
		for i, f := range fields {
			typed[i] = fmt.Sprintf("%s (%s)", f, reg.FieldKind(d, f))
		}
		ops := reg.AllowedOperations(d)
		opNames := make([]string, len(ops))
		for i, op := range ops {
			opNames[i] = string(op)
		}
		fmt.Fprintf(&b, "- %s (also called: %s)\n  fields: %s\n  operations: %s\n",
			d, strings.Join(reg.Aliases(d), ", "), strings.Join(typed, ", "), strings.Join(opNames, ", "))
	}

	b.WriteString("\nOutput keys: collection, operation, filter (object of exact field values), " +
		"starting, destination, airline, sort ({\"field\", \"direction\": \"asc\"|\"desc\"}), limit, skip.\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Respond with exactly one JSON object and nothing else. No prose, no code fences.\n")
	b.WriteString("- Use only the collections, fields and operations listed above.\n")
	b.WriteString("- Airport codes are three-letter IATA codes in uppercase.\n")
	b.WriteString("- Airline names exist only on segments; use by_airline for airline questions.\n")
	fmt.Fprintf(&b, "- Omit keys you do not need. The default limit is %d.\n\n", defaultLimit)

	b.WriteString("Examples:\n")
	for _, ex := range promptExamples {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.question, ex.answer)
	}
	return b.String()
}

func userPrompt(question string) string {
	return "Q: " + strings.TrimSpace(question) + "\nA:"
}
