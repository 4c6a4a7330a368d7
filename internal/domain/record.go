package domain

// KeyPrefix namespaces every key this service writes to the KV store.
const KeyPrefix = "chatdb:"

// Record is a normalized store document: plain JSON-compatible values only.
type Record map[string]any

// String returns the field as a string, or "" when missing or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}
