package hotel

import "testing"

func TestNewFilter_Defaults(t *testing.T) {
	f, err := NewFilter("", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", f.Limit(), DefaultLimit)
	}
	if f.County() != "" || f.State() != "" || f.MinRating() != 0 {
		t.Errorf("unexpected conditions: %+v", f)
	}
}

func TestNewFilter_Normalizes(t *testing.T) {
	f, err := NewFilter(" Los Angeles ", " ca", 4.5, MaxLimit+10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.County() != "Los Angeles" {
		t.Errorf("County() = %q", f.County())
	}
	if f.State() != "CA" {
		t.Errorf("State() = %q", f.State())
	}
	if f.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", f.Limit(), MaxLimit)
	}
}

func TestNewFilter_RatingRange(t *testing.T) {
	for _, r := range []float64{-1, 5.5} {
		if _, err := NewFilter("", "", r, 0); err == nil {
			t.Errorf("NewFilter(min_rating=%v) expected error", r)
		}
	}
}
