package nlquery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

var (
	shellFindRe = regexp.MustCompile(`db\.([A-Za-z0-9_\-]+)\.find\(`)
	shellSortRe = regexp.MustCompile(`\.sort\(\s*`)
	shellLimit  = regexp.MustCompile(`\.limit\(\s*(-?\d+)\s*\)`)
	shellSkip   = regexp.MustCompile(`\.skip\(\s*(-?\d+)\s*\)`)
	bareKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
)

// ExtractCandidate locates the first structured block in a model response.
// It accepts a JSON object anywhere in the text (Markdown fences and surrounding
// prose are ignored) or a Mongo shell expression like db.flights.find({...}).limit(5).
func ExtractCandidate(text string) (query.Candidate, error) {
	text = stripFences(text)

	if c, ok := extractShellFind(text); ok {
		return c, nil
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := balancedEnd(text, i)
		if end < 0 {
			continue
		}
		if obj, ok := decodeObject(text[i : end+1]); ok {
			return query.Candidate(obj), nil
		}
	}
	return nil, fmt.Errorf("%w: no structured block in response", domain.ErrGenerationFailed)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```javascript", "")
	return strings.ReplaceAll(s, "```", "")
}

func extractShellFind(text string) (query.Candidate, bool) {
	loc := shellFindRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, false
	}
	c := query.Candidate{
		"collection": text[loc[2]:loc[3]],
		"operation":  "find",
	}

	rest := strings.TrimLeft(text[loc[1]:], " \t\r\n")
	if strings.HasPrefix(rest, "{") {
		end := balancedEnd(rest, 0)
		if end < 0 {
			return nil, false
		}
		filter, ok := decodeObject(rest[:end+1])
		if !ok {
			return nil, false
		}
		c["filter"] = filter
		rest = rest[end+1:]
	}

	if m := shellSortRe.FindStringIndex(rest); m != nil && strings.HasPrefix(rest[m[1]:], "{") {
		tail := rest[m[1]:]
		if end := balancedEnd(tail, 0); end >= 0 {
			if s, ok := decodeObject(tail[:end+1]); ok {
				c["sort"] = s
			}
		}
	}
	if m := shellLimit.FindStringSubmatch(rest); m != nil {
		c["limit"] = json.Number(m[1])
	}
	if m := shellSkip.FindStringSubmatch(rest); m != nil {
		c["skip"] = json.Number(m[1])
	}
	return c, true
}

// balancedEnd returns the index of the brace closing the one at start, or -1.
// Braces inside single- or double-quoted strings are ignored.
func balancedEnd(s string, start int) int {
	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decodeObject parses span as a JSON object, retrying with single quotes and
// bare keys normalized, which local models emit often.
func decodeObject(span string) (map[string]any, bool) {
	attempts := []string{
		span,
		strings.ReplaceAll(span, "'", `"`),
		bareKeyRe.ReplaceAllString(strings.ReplaceAll(span, "'", `"`), `$1"$2":`),
	}
	for _, s := range attempts {
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}
