package hotel

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/db"
	domhotel "github.com/xannhsux/DSCI551-ChatDB4/internal/domain/hotel"
)

const selectReviews = `SELECT rating, sleepquality, service, rooms, cleanliness, value, hotel_name, county, state
FROM hotel_reviews`

// Repo reads hotel reviews from SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a hotel repository.
func New(conn *sql.DB) *Repo {
	return &Repo{db: conn}
}

// List returns reviews matching f, best rated first.
func (r *Repo) List(ctx context.Context, f domhotel.Filter) ([]domhotel.Review, error) {
	q, args := buildQuery(f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer func() { _ = rows.Close() }()

	out := make([]domhotel.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("scan: %w", err)}
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

func buildQuery(f domhotel.Filter) (string, []any) {
	var where []string
	var args []any
	if f.County() != "" {
		where = append(where, "county = ?")
		args = append(args, f.County())
	}
	if f.State() != "" {
		where = append(where, "UPPER(state) = ?")
		args = append(args, f.State())
	}
	if f.MinRating() > 0 {
		where = append(where, "rating >= ?")
		args = append(args, f.MinRating())
	}

	var b strings.Builder
	b.WriteString(selectReviews)
	if len(where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\nORDER BY rating DESC, hotel_name\nLIMIT ?")
	args = append(args, f.Limit())
	return b.String(), args
}

func scanReview(rows *sql.Rows) (domhotel.Review, error) {
	var (
		rating, sleep, service, rooms, clean, value sql.NullFloat64
		name, county, state                         sql.NullString
	)
	if err := rows.Scan(&rating, &sleep, &service, &rooms, &clean, &value, &name, &county, &state); err != nil {
		return domhotel.Review{}, err
	}
	return domhotel.Review{
		HotelName:    name.String,
		County:       county.String,
		State:        state.String,
		Rating:       rating.Float64,
		SleepQuality: sleep.Float64,
		Service:      service.Float64,
		Rooms:        rooms.Float64,
		Cleanliness:  clean.Float64,
		Value:        value.Float64,
	}, nil
}
