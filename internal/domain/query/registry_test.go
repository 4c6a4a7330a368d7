package query

import (
	"slices"
	"testing"
)

func TestResolveDomain_HistoricalAliases(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		alias string
		want  Domain
	}{
		{"flights", Flights},
		{"Flights_Basic", Flights},
		{"DSCI551_Project", Flights},
		{"db.flights_basic", Flights},
		{"  flight  ", Flights},
		{"segments", Segments},
		{"flights_segments", Segments},
		{"flights-segments", Segments},
		{"SEGMENT", Segments},
	}
	for _, tt := range tests {
		got, ok := reg.ResolveDomain(tt.alias)
		if !ok {
			t.Errorf("ResolveDomain(%q) not found", tt.alias)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveDomain(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}

func TestResolveDomain_UnknownAlwaysRejected(t *testing.T) {
	reg := DefaultRegistry()
	for _, alias := range []string{"", "hotels", "hotel_reviews", "flightz", "users", "db.", "airports"} {
		if d, ok := reg.ResolveDomain(alias); ok {
			t.Errorf("ResolveDomain(%q) = %q, want not found", alias, d)
		}
	}
}

func TestResolveDomain_ConfiguredCollections(t *testing.T) {
	reg := NewRegistry(Collections{Flights: "itins_2022", Segments: "legs_2022"})

	if d, ok := reg.ResolveDomain("itins_2022"); !ok || d != Flights {
		t.Errorf("configured flights collection: got %q, %v", d, ok)
	}
	if d, ok := reg.ResolveDomain("legs_2022"); !ok || d != Segments {
		t.Errorf("configured segments collection: got %q, %v", d, ok)
	}
	if reg.Collection(Flights) != "itins_2022" {
		t.Errorf("Collection(Flights) = %q", reg.Collection(Flights))
	}
}

func TestKnownFields(t *testing.T) {
	reg := DefaultRegistry()

	want := []string{"destinationAirport", "originalId", "startingAirport", "totalFare", "totalTripDuration"}
	if got := reg.KnownFields(Flights); !slices.Equal(got, want) {
		t.Errorf("KnownFields(Flights) = %v, want %v", got, want)
	}
	want = []string{"originalId", "segmentsAirlineName"}
	if got := reg.KnownFields(Segments); !slices.Equal(got, want) {
		t.Errorf("KnownFields(Segments) = %v, want %v", got, want)
	}
}

func TestCanonicalField(t *testing.T) {
	reg := DefaultRegistry()

	if f, ok := reg.CanonicalField(Flights, "STARTING_AIRPORT"); !ok || f != FieldStartingAirport {
		t.Errorf("CanonicalField = %q, %v", f, ok)
	}
	if _, ok := reg.CanonicalField(Flights, "segmentsAirlineName"); ok {
		t.Error("airline field must not resolve on flights")
	}
	if reg.FieldKind(Flights, FieldTotalFare) != KindNumber {
		t.Errorf("FieldKind(totalFare) = %q", reg.FieldKind(Flights, FieldTotalFare))
	}
}

func TestAllowedOperations(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		d    Domain
		op   Operation
		want bool
	}{
		{Flights, All, true},
		{Flights, ByFilter, true},
		{Flights, ByRoute, true},
		{Flights, ByAirline, false},
		{Segments, All, true},
		{Segments, ByFilter, true},
		{Segments, ByAirline, true},
		{Segments, ByRoute, false},
	}
	for _, tt := range tests {
		if got := reg.Allows(tt.d, tt.op); got != tt.want {
			t.Errorf("Allows(%s, %s) = %v, want %v", tt.d, tt.op, got, tt.want)
		}
	}
}

func TestAliases_StartWithCollection(t *testing.T) {
	reg := DefaultRegistry()
	aliases := reg.Aliases(Segments)
	if aliases[0] != DefaultSegmentsCollection {
		t.Errorf("first alias = %q, want %q", aliases[0], DefaultSegmentsCollection)
	}
	if !slices.Contains(aliases, "segments") {
		t.Errorf("aliases missing %q: %v", "segments", aliases)
	}
}
