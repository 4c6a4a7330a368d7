package nlquery

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

type hexID string

func (h hexID) String() string { return string(h) }

func TestExecutor_All(t *testing.T) {
	store := &mockStore{all: []domain.Record{{"_id": hexID("65a1"), "originalId": "f1"}}}
	reg := query.DefaultRegistry()
	q, _ := reg.All(query.Flights, query.NewPage(5, 10, query.DefaultLimits()),
		&query.Sort{Field: query.FieldTotalFare, Direction: query.Desc})

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastOpts.Limit != 5 || store.lastOpts.Skip != 10 || store.lastOpts.Sort == nil {
		t.Errorf("opts = %+v", store.lastOpts)
	}
	if out.Records[0]["_id"] != "65a1" {
		t.Errorf("_id = %#v, want plain string", out.Records[0]["_id"])
	}
	if out.MatchMode != query.MatchExact {
		t.Errorf("MatchMode = %q", out.MatchMode)
	}
}

func TestExecutor_RouteExactHitSkipsRelaxed(t *testing.T) {
	store := &mockStore{byRoute: map[query.MatchMode][]domain.Record{
		query.MatchExact:   {{"originalId": "f1"}},
		query.MatchRelaxed: {{"originalId": "f2"}},
	}}
	q, _ := query.DefaultRegistry().ByRoute("LAX", "JFK", query.DefaultPage(), nil)

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.routeCalls) != 1 {
		t.Errorf("expected 1 route call, got %d", len(store.routeCalls))
	}
	if out.MatchMode != query.MatchExact || out.Records[0]["originalId"] != "f1" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestExecutor_RouteRelaxedRetry(t *testing.T) {
	store := &mockStore{byRoute: map[query.MatchMode][]domain.Record{
		query.MatchRelaxed: {{"originalId": "f2"}},
	}}
	q, _ := query.DefaultRegistry().ByRoute("LAX", "JFK", query.DefaultPage(), nil)

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []routeCall{
		{"LAX", "JFK", query.MatchExact},
		{"LAX", "JFK", query.MatchRelaxed},
	}
	if !reflect.DeepEqual(store.routeCalls, want) {
		t.Errorf("route calls = %+v", store.routeCalls)
	}
	if out.MatchMode != query.MatchRelaxed || len(out.Records) != 1 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestExecutor_AirlineJoin(t *testing.T) {
	store := &mockStore{
		segments: []domain.Record{
			{"originalId": "f2", "segmentsAirlineName": "Delta||United"},
			{"originalId": "f1", "segmentsAirlineName": "Delta"},
			{"originalId": "f2", "segmentsAirlineName": "Delta"},
			{"segmentsAirlineName": "Delta"},
		},
		flightsIDs: []domain.Record{
			{"originalId": "f1", "totalFare": 100.0},
			{"originalId": "f2", "totalFare": 200.0},
		},
	}
	q, _ := query.DefaultRegistry().ByAirline("delta", true, query.NewPage(7, 0, query.DefaultLimits()), nil)

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(store.lastIDs, []string{"f2", "f1"}) {
		t.Errorf("ids = %v, want distinct first-seen order", store.lastIDs)
	}
	if store.lastSegOpts.Limit != 0 {
		t.Errorf("segment lookup must be unbounded, got limit %d", store.lastSegOpts.Limit)
	}
	if store.lastOpts.Limit != 7 {
		t.Errorf("flight limit = %d, want 7", store.lastOpts.Limit)
	}
	if out.Records[1][FieldAirlineNameDerived] != "Delta||United" {
		t.Errorf("airlineName = %#v", out.Records[1][FieldAirlineNameDerived])
	}
	if out.MatchMode != query.MatchSubstring {
		t.Errorf("MatchMode = %q", out.MatchMode)
	}
}

func TestExecutor_AirlineJoinNoSegments(t *testing.T) {
	store := &mockStore{}
	q, _ := query.DefaultRegistry().ByAirline("nobody", true, query.DefaultPage(), nil)

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.idsCalled != 0 {
		t.Error("flights lookup must be skipped when no segment matched")
	}
	if out.Records == nil || len(out.Records) != 0 {
		t.Errorf("records = %#v, want empty non-nil", out.Records)
	}
}

func TestExecutor_AirlineWithoutJoin(t *testing.T) {
	store := &mockStore{segments: []domain.Record{{"originalId": "f1", "segmentsAirlineName": "Delta"}}}
	q, _ := query.DefaultRegistry().ByAirline("delta", false, query.DefaultPage(), nil)

	out, err := NewExecutor(store).Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.idsCalled != 0 || len(out.Records) != 1 {
		t.Errorf("idsCalled=%d records=%v", store.idsCalled, out.Records)
	}
	if store.lastSegOpts.Limit != query.DefaultLimit {
		t.Errorf("segment limit = %d", store.lastSegOpts.Limit)
	}
}

func TestExecutor_FilterIdempotent(t *testing.T) {
	store := &mockStore{filterResults: map[query.Domain][]domain.Record{
		query.Flights: {{"originalId": "a"}, {"originalId": "b"}},
	}}
	q, _ := query.DefaultRegistry().ByFilter(query.Flights,
		map[string]any{query.FieldStartingAirport: "LAX"}, query.DefaultPage(),
		&query.Sort{Field: query.FieldTotalFare, Direction: query.Asc})
	ex := NewExecutor(store)

	first, err := ex.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ex.Execute(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Errorf("results differ: %v vs %v", first.Records, second.Records)
	}
	if store.lastFilter[query.FieldStartingAirport] != "LAX" {
		t.Errorf("filter = %v", store.lastFilter)
	}
}

func TestExecutor_StoreErrors(t *testing.T) {
	reg := query.DefaultRegistry()
	all, _ := reg.All(query.Segments, query.DefaultPage(), nil)
	route, _ := reg.ByRoute("LAX", "JFK", query.DefaultPage(), nil)
	airline, _ := reg.ByAirline("delta", true, query.DefaultPage(), nil)
	filter, _ := reg.ByFilter(query.Segments, map[string]any{query.FieldOriginalID: "x"}, query.DefaultPage(), nil)

	for _, q := range []query.StructuredQuery{all, route, airline, filter} {
		store := &mockStore{err: errors.New("connection reset")}
		_, err := NewExecutor(store).Execute(context.Background(), q)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Errorf("%s: expected ErrStoreUnavailable, got %v", q.Operation(), err)
		}
		if len(store.routeCalls) > 1 {
			t.Errorf("%s: store failure must not be retried", q.Operation())
		}
	}
}
