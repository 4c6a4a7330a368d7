package flight

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/db"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// Repo reads flights and segments from MongoDB.
type Repo struct {
	reg *query.Registry
	mdb *mongo.Database
}

// New creates a flight repository. Collection names come from the registry.
func New(mdb *mongo.Database, reg *query.Registry) *Repo {
	return &Repo{reg: reg, mdb: mdb}
}

// FindAll returns every document of the domain, paged.
func (r *Repo) FindAll(ctx context.Context, d query.Domain, opts query.FindOptions) ([]domain.Record, error) {
	return r.find(ctx, d, bson.M{}, opts)
}

// FindByFilter returns documents matching all filter fields exactly.
func (r *Repo) FindByFilter(
	ctx context.Context, d query.Domain, filter map[string]any, opts query.FindOptions,
) ([]domain.Record, error) {
	f := make(bson.M, len(filter))
	for k, v := range filter {
		f[k] = v
	}
	return r.find(ctx, d, f, opts)
}

// FindByRoute matches flights by airport pair.
// Exact compares codes verbatim; relaxed is a case-insensitive substring match on both.
func (r *Repo) FindByRoute(
	ctx context.Context, starting, destination string, mode query.MatchMode, opts query.FindOptions,
) ([]domain.Record, error) {
	f := bson.M{
		query.FieldStartingAirport:    starting,
		query.FieldDestinationAirport: destination,
	}
	if mode == query.MatchRelaxed {
		f = bson.M{
			query.FieldStartingAirport:    contains(starting),
			query.FieldDestinationAirport: contains(destination),
		}
	}
	return r.find(ctx, query.Flights, f, opts)
}

// FindSegmentsByAirline matches segments whose airline list contains airline, case-insensitively.
func (r *Repo) FindSegmentsByAirline(
	ctx context.Context, airline string, opts query.FindOptions,
) ([]domain.Record, error) {
	return r.find(ctx, query.Segments, bson.M{query.FieldAirlineName: contains(airline)}, opts)
}

// FindFlightsByIDs returns the flights whose originalId is in ids.
func (r *Repo) FindFlightsByIDs(ctx context.Context, ids []string, opts query.FindOptions) ([]domain.Record, error) {
	if len(ids) == 0 {
		return []domain.Record{}, nil
	}
	return r.find(ctx, query.Flights, bson.M{query.FieldOriginalID: bson.M{"$in": ids}}, opts)
}

// Ping checks the database behind the repository.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.mdb.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

func (r *Repo) find(ctx context.Context, d query.Domain, filter bson.M, opts query.FindOptions) ([]domain.Record, error) {
	coll := r.reg.Collection(d)
	if coll == "" {
		return nil, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidQuery, d)
	}

	cur, err := r.mdb.Collection(coll).Find(ctx, filter, findOptions(opts))
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("%s: %w", coll, err)}
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("%s: decode: %w", coll, err)}
	}

	out := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toRecord(doc))
	}
	return out, nil
}

// findOptions always ends the sort with _id so paging is stable.
func findOptions(opts query.FindOptions) *options.FindOptions {
	fo := options.Find()
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		fo.SetSkip(int64(opts.Skip))
	}

	sort := bson.D{}
	if opts.Sort != nil && opts.Sort.Field != "_id" {
		dir := 1
		if opts.Sort.Direction == query.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: opts.Sort.Field, Value: dir})
	}
	idDir := 1
	if opts.Sort != nil && opts.Sort.Field == "_id" && opts.Sort.Direction == query.Desc {
		idDir = -1
	}
	sort = append(sort, bson.E{Key: "_id", Value: idDir})
	return fo.SetSort(sort)
}

func contains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func toRecord(doc bson.M) domain.Record {
	rec := make(domain.Record, len(doc))
	for k, v := range doc {
		rec[k] = plain(v)
	}
	return rec
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return t.String()
	case bson.M:
		return map[string]any(toRecord(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
