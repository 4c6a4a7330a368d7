package query

// Candidate is an untrusted, loosely typed query as produced by the language model.
// Only the validator may upgrade it into a StructuredQuery.
type Candidate map[string]any

// Lookup returns the value of the first present, non-nil key.
func (c Candidate) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := c[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first present key holding a string.
func (c Candidate) String(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := c[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
