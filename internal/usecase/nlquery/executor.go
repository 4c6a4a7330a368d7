package nlquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// FieldAirlineNameDerived is attached to flights resolved through an airline join.
const FieldAirlineNameDerived = "airlineName"

// Outcome is the executor's result set and the match mode that produced it.
type Outcome struct {
	Records   []domain.Record
	MatchMode query.MatchMode
}

// Executor maps structured queries onto store calls.
type Executor struct {
	store Store
}

// NewExecutor creates an Executor.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// Execute runs q. Store failures wrap domain.ErrStoreUnavailable and are not retried;
// no matches is an empty, non-nil slice.
func (e *Executor) Execute(ctx context.Context, q query.StructuredQuery) (Outcome, error) {
	opts := q.FindOptions()

	switch q.Operation() {
	case query.All:
		recs, err := e.store.FindAll(ctx, q.Domain(), opts)
		if err != nil {
			return Outcome{}, storeErr("find all", err)
		}
		return Outcome{Records: normalize(recs), MatchMode: query.MatchExact}, nil

	case query.ByFilter:
		recs, err := e.store.FindByFilter(ctx, q.Domain(), q.Filter(), opts)
		if err != nil {
			return Outcome{}, storeErr("find by filter", err)
		}
		return Outcome{Records: normalize(recs), MatchMode: query.MatchExact}, nil

	case query.ByRoute:
		return e.byRoute(ctx, q, opts)

	case query.ByAirline:
		return e.byAirline(ctx, q, opts)

	default:
		return Outcome{}, fmt.Errorf("%w: unsupported operation %q", domain.ErrInvalidQuery, q.Operation())
	}
}

// byRoute tries an exact match, then once with relaxed matching.
func (e *Executor) byRoute(ctx context.Context, q query.StructuredQuery, opts query.FindOptions) (Outcome, error) {
	recs, err := e.store.FindByRoute(ctx, q.Starting(), q.Destination(), query.MatchExact, opts)
	if err != nil {
		return Outcome{}, storeErr("find by route", err)
	}
	if len(recs) > 0 {
		return Outcome{Records: normalize(recs), MatchMode: query.MatchExact}, nil
	}

	recs, err = e.store.FindByRoute(ctx, q.Starting(), q.Destination(), query.MatchRelaxed, opts)
	if err != nil {
		return Outcome{}, storeErr("find by route (relaxed)", err)
	}
	return Outcome{Records: normalize(recs), MatchMode: query.MatchRelaxed}, nil
}

// byAirline matches segments by airline substring. With join, matching segment ids
// are resolved to their parent flights in one hop and the airline name is attached.
func (e *Executor) byAirline(ctx context.Context, q query.StructuredQuery, opts query.FindOptions) (Outcome, error) {
	segOpts := opts
	if q.Join() {
		// Paging and sort apply to the flights, so every matching segment is needed.
		segOpts = query.FindOptions{}
	}
	segs, err := e.store.FindSegmentsByAirline(ctx, q.Airline(), segOpts)
	if err != nil {
		return Outcome{}, storeErr("find segments by airline", err)
	}
	if !q.Join() {
		return Outcome{Records: normalize(segs), MatchMode: query.MatchSubstring}, nil
	}

	ids, names := segmentIndex(segs)
	if len(ids) == 0 {
		return Outcome{Records: []domain.Record{}, MatchMode: query.MatchSubstring}, nil
	}

	flights, err := e.store.FindFlightsByIDs(ctx, ids, opts)
	if err != nil {
		return Outcome{}, storeErr("find flights by ids", err)
	}
	flights = normalize(flights)
	for _, f := range flights {
		if name := names[f.String(query.FieldOriginalID)]; name != "" {
			f[FieldAirlineNameDerived] = name
		}
	}
	return Outcome{Records: flights, MatchMode: query.MatchSubstring}, nil
}

// segmentIndex returns distinct originalIds in first-seen order and the first
// airline name seen for each.
func segmentIndex(segs []domain.Record) ([]string, map[string]string) {
	ids := make([]string, 0, len(segs))
	names := make(map[string]string, len(segs))
	for _, s := range segs {
		id := stringify(s[query.FieldOriginalID])
		if id == "" {
			continue
		}
		if _, seen := names[id]; seen {
			continue
		}
		ids = append(ids, id)
		names[id] = s.String(query.FieldAirlineName)
	}
	return ids, names
}

// normalize guarantees a non-nil slice and string identifiers.
func normalize(recs []domain.Record) []domain.Record {
	if recs == nil {
		return []domain.Record{}
	}
	for _, r := range recs {
		for _, key := range []string{"_id", query.FieldOriginalID} {
			if v, ok := r[key]; ok && v != nil {
				if _, isStr := v.(string); !isStr {
					r[key] = stringify(v)
				}
			}
		}
	}
	return recs
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
