package nlquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// FieldSegmentDetails holds the segment records attached to a flight.
const FieldSegmentDetails = "segmentDetails"

// FlightDetails returns one flight by originalId with its segments attached.
func (s *Service) FlightDetails(ctx context.Context, id string) (domain.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidQuery)
	}
	filter := map[string]any{query.FieldOriginalID: id}

	fq, err := s.reg.ByFilter(query.Flights, filter, query.NewPage(1, 0, query.DefaultLimits()), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	flights, err := s.Execute(ctx, fq)
	if err != nil {
		return nil, err
	}
	if len(flights.Records) == 0 {
		return nil, fmt.Errorf("flight %q: %w", id, domain.ErrNotFound)
	}

	sq, err := s.reg.ByFilter(query.Segments, filter, query.NewPage(query.MaxLimit, 0, query.DefaultLimits()), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	segs, err := s.Execute(ctx, sq)
	if err != nil {
		return nil, err
	}

	flight := flights.Records[0]
	flight[FieldSegmentDetails] = segs.Records
	return flight, nil
}
