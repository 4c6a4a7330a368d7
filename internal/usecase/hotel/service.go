package hotel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
)

// Service handles hotel review listings.
type Service struct {
	repo Repository
}

// New creates a hotel service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns reviews matching the optional county, state and minimum rating.
func (s *Service) List(ctx context.Context, county, state string, minRating float64, limit int) ([]domhotel.Review, error) {
	f, err := domhotel.NewFilter(county, state, minRating, limit)
	if err != nil {
		return nil, fmt.Errorf("validate filter: %w: %w", domain.ErrInvalidQuery, err)
	}
	return s.list(ctx, f)
}

// ByCounty returns reviews for one county.
func (s *Service) ByCounty(ctx context.Context, county string, limit int) ([]domhotel.Review, error) {
	if strings.TrimSpace(county) == "" {
		return nil, fmt.Errorf("%w: county is required", domain.ErrInvalidQuery)
	}
	return s.List(ctx, county, "", 0, limit)
}

// ByState returns reviews for one state.
func (s *Service) ByState(ctx context.Context, state string, limit int) ([]domhotel.Review, error) {
	if strings.TrimSpace(state) == "" {
		return nil, fmt.Errorf("%w: state is required", domain.ErrInvalidQuery)
	}
	return s.List(ctx, "", state, 0, limit)
}

func (s *Service) list(ctx context.Context, f domhotel.Filter) ([]domhotel.Review, error) {
	reviews, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	if reviews == nil {
		reviews = []domhotel.Review{}
	}
	return reviews, nil
}
