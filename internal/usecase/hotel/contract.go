package hotel

import (
	"context"

	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
)

// Repository defines the storage contract for hotel reviews.
type Repository interface {
	List(ctx context.Context, f domhotel.Filter) ([]domhotel.Review, error)
}
