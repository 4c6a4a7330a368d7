package hotel

import (
	"fmt"
	"strings"
)

// Listing limits.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
	MaxRating    = 5
)

// Review is one hotel review row.
type Review struct {
	HotelName    string
	County       string
	State        string
	Rating       float64
	SleepQuality float64
	Service      float64
	Rooms        float64
	Cleanliness  float64
	Value        float64
}

// Filter is a validated hotel listing filter.
type Filter struct {
	county    string
	state     string
	minRating float64
	limit     int
}

// NewFilter validates and normalizes listing parameters.
// State is uppercased and compared case-insensitively; county is matched exactly.
func NewFilter(county, state string, minRating float64, limit int) (Filter, error) {
	if minRating < 0 || minRating > MaxRating {
		return Filter{}, fmt.Errorf("min_rating must be between 0 and %d", MaxRating)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Filter{
		county:    strings.TrimSpace(county),
		state:     strings.ToUpper(strings.TrimSpace(state)),
		minRating: minRating,
		limit:     limit,
	}, nil
}

// County returns the county condition, "" when unset.
func (f Filter) County() string { return f.county }

// State returns the uppercased state condition, "" when unset.
func (f Filter) State() string { return f.state }

// MinRating returns the minimum rating, 0 when unset.
func (f Filter) MinRating() float64 { return f.minRating }

// Limit returns the maximum number of rows.
func (f Filter) Limit() int { return f.limit }
