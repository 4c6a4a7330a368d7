package nlquery

import (
	"context"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// Store is the document store the executor reads from.
// Implementations return plain records: store-specific id types are converted to strings.
type Store interface {
	FindAll(ctx context.Context, d query.Domain, opts query.FindOptions) ([]domain.Record, error)
	FindByFilter(ctx context.Context, d query.Domain, filter map[string]any, opts query.FindOptions) ([]domain.Record, error)
	FindByRoute(
		ctx context.Context, starting, destination string, mode query.MatchMode, opts query.FindOptions,
	) ([]domain.Record, error)
	FindSegmentsByAirline(ctx context.Context, airline string, opts query.FindOptions) ([]domain.Record, error)
	FindFlightsByIDs(ctx context.Context, ids []string, opts query.FindOptions) ([]domain.Record, error)
}

// CandidateGenerator turns a question into an untrusted candidate query.
type CandidateGenerator interface {
	Generate(ctx context.Context, question string) (query.Candidate, error)
}
