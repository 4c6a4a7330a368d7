package flight

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/db"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

const flightsNS = "flights.flights_basic"

func newTestRepo(mt *mtest.T) *Repo {
	return New(mt.DB, query.DefaultRegistry())
}

func number(v bson.RawValue) int64 {
	if i, ok := v.Int32OK(); ok {
		return int64(i)
	}
	if i, ok := v.Int64OK(); ok {
		return i
	}
	return -1
}

func TestFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("converts ids and pages", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, flightsNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "originalId", Value: "f1"}, {Key: "totalFare", Value: 120.5}},
		))

		recs, err := newTestRepo(mt).FindAll(context.Background(), query.Flights, query.FindOptions{
			Limit: 5, Skip: 10, Sort: &query.Sort{Field: query.FieldTotalFare, Direction: query.Desc},
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 1 {
			mt.Fatalf("expected 1 record, got %d", len(recs))
		}
		if recs[0]["_id"] != oid.Hex() {
			mt.Errorf("_id = %#v, want %q", recs[0]["_id"], oid.Hex())
		}
		if recs[0]["totalFare"] != 120.5 {
			mt.Errorf("totalFare = %#v", recs[0]["totalFare"])
		}

		ev := mt.GetStartedEvent()
		if ev == nil {
			mt.Fatal("no command captured")
		}
		if ev.CommandName != "find" {
			mt.Errorf("command = %q", ev.CommandName)
		}
		if coll := ev.Command.Lookup("find").StringValue(); coll != query.DefaultFlightsCollection {
			mt.Errorf("collection = %q", coll)
		}
		if got := number(ev.Command.Lookup("limit")); got != 5 {
			mt.Errorf("limit = %d", got)
		}
		if got := number(ev.Command.Lookup("skip")); got != 10 {
			mt.Errorf("skip = %d", got)
		}
		sortDoc, ok := ev.Command.Lookup("sort").DocumentOK()
		if !ok {
			mt.Fatal("sort missing")
		}
		elems, _ := sortDoc.Elements()
		if len(elems) != 2 || elems[0].Key() != "totalFare" || elems[1].Key() != "_id" {
			mt.Errorf("sort = %v, want totalFare then _id", sortDoc)
		}
		if number(elems[0].Value()) != -1 {
			mt.Errorf("totalFare direction = %d", number(elems[0].Value()))
		}
	})

	mt.Run("empty result is non-nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "flights.flights_segments", mtest.FirstBatch))

		recs, err := newTestRepo(mt).FindAll(context.Background(), query.Segments, query.FindOptions{})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if recs == nil || len(recs) != 0 {
			mt.Errorf("records = %#v", recs)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11600, Name: "InterruptedAtShutdown", Message: "interrupted at shutdown",
		}))

		_, err := newTestRepo(mt).FindAll(context.Background(), query.Flights, query.FindOptions{})
		var dbErr *db.Error
		if !errors.As(err, &dbErr) || dbErr.Op != db.OpFind {
			mt.Fatalf("expected db.Error(find), got %v", err)
		}
	})
}

func TestFindByRoute(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exact", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, flightsNS, mtest.FirstBatch,
			bson.D{{Key: "originalId", Value: "f1"}},
		))

		if _, err := newTestRepo(mt).FindByRoute(context.Background(), "LAX", "JFK", query.MatchExact,
			query.FindOptions{Limit: 20}); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("filter", "startingAirport").StringValue(); got != "LAX" {
			mt.Errorf("startingAirport = %q", got)
		}
		if got := cmd.Lookup("filter", "destinationAirport").StringValue(); got != "JFK" {
			mt.Errorf("destinationAirport = %q", got)
		}
	})

	mt.Run("relaxed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, flightsNS, mtest.FirstBatch))

		if _, err := newTestRepo(mt).FindByRoute(context.Background(), "LAX", "JFK", query.MatchRelaxed,
			query.FindOptions{}); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("filter", "startingAirport", "$regex").StringValue(); got != "LAX" {
			mt.Errorf("$regex = %q", got)
		}
		if got := cmd.Lookup("filter", "destinationAirport", "$options").StringValue(); got != "i" {
			mt.Errorf("$options = %q", got)
		}
	})
}

func TestFindSegmentsByAirline_QuotesPattern(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("quotes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "flights.flights_segments", mtest.FirstBatch,
			bson.D{{Key: "originalId", Value: "f1"}, {Key: "segmentsAirlineName", Value: "Delta||Delta"}},
		))

		recs, err := newTestRepo(mt).FindSegmentsByAirline(context.Background(), "a.b", query.FindOptions{})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 1 {
			mt.Fatalf("expected 1 record, got %d", len(recs))
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("find").StringValue(); got != query.DefaultSegmentsCollection {
			mt.Errorf("collection = %q", got)
		}
		if got := cmd.Lookup("filter", "segmentsAirlineName", "$regex").StringValue(); got != `a\.b` {
			mt.Errorf("$regex = %q", got)
		}
	})
}

func TestFindFlightsByIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no ids skips the store", func(mt *mtest.T) {
		recs, err := newTestRepo(mt).FindFlightsByIDs(context.Background(), nil, query.FindOptions{})
		if err != nil || recs == nil || len(recs) != 0 {
			mt.Fatalf("recs=%#v err=%v", recs, err)
		}
		if ev := mt.GetStartedEvent(); ev != nil {
			mt.Errorf("unexpected command %q", ev.CommandName)
		}
	})

	mt.Run("in filter", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, flightsNS, mtest.FirstBatch,
			bson.D{{Key: "originalId", Value: "f1"}},
			bson.D{{Key: "originalId", Value: "f2"}},
		))

		recs, err := newTestRepo(mt).FindFlightsByIDs(context.Background(), []string{"f1", "f2"}, query.FindOptions{Limit: 20})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 {
			mt.Fatalf("expected 2 records, got %d", len(recs))
		}
		arr, ok := mt.GetStartedEvent().Command.Lookup("filter", "originalId", "$in").ArrayOK()
		if !ok {
			mt.Fatal("$in missing")
		}
		vals, _ := arr.Values()
		if len(vals) != 2 {
			mt.Errorf("$in = %v", arr)
		}
	})
}

func TestPlain(t *testing.T) {
	ts := time.Date(2022, 4, 17, 6, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()
	got := plain(bson.M{
		"when":   primitive.NewDateTimeFromTime(ts),
		"nested": bson.D{{Key: "id", Value: oid}},
		"list":   bson.A{oid, "x"},
	}).(map[string]any)

	if got["when"] != "2022-04-17T06:00:00Z" {
		t.Errorf("when = %#v", got["when"])
	}
	if nested := got["nested"].(map[string]any); nested["id"] != oid.Hex() {
		t.Errorf("nested = %#v", nested)
	}
	if list := got["list"].([]any); list[0] != oid.Hex() || list[1] != "x" {
		t.Errorf("list = %#v", list)
	}
}
