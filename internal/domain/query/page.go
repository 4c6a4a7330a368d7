package query

// Result size limits.
const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

// Limits configures limit clamping.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

func (l Limits) normalized() Limits {
	if l.Max <= 0 {
		l.Max = MaxLimit
	}
	if l.Default <= 0 {
		l.Default = DefaultLimit
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Page is a validated limit/skip pair.
type Page struct {
	limit int
	skip  int
}

// NewPage clamps limit into [1, Max] and skip to >= 0.
// A non-positive limit means "not requested" and falls back to the default.
func NewPage(limit, skip int, l Limits) Page {
	l = l.normalized()
	if limit <= 0 {
		limit = l.Default
	}
	if limit > l.Max {
		limit = l.Max
	}
	if skip < 0 {
		skip = 0
	}
	return Page{limit: limit, skip: skip}
}

// DefaultPage returns the default limit with no skip.
func DefaultPage() Page {
	return NewPage(0, 0, DefaultLimits())
}

// Limit returns the maximum number of records.
func (p Page) Limit() int { return p.limit }

// Skip returns the number of records to skip.
func (p Page) Skip() int { return p.skip }

// FindOptions is the paging and ordering handed to a store call.
// Limit 0 means unbounded.
type FindOptions struct {
	Limit int
	Skip  int
	Sort  *Sort
}
