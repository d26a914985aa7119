package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bhotel/bhotel-ui-api/internal/data/pgxutil"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

// ReviewRepo provides database operations for guest reviews.
type ReviewRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReviewRepo creates a new ReviewRepo with real time provider.
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewReviewRepoWithTimeProvider creates a new ReviewRepo with a custom time provider.
func NewReviewRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ReviewRepo {
	return &ReviewRepo{DB: db, timeProvider: tp}
}

const reviewColumns = `id, guest_name, rating, comment, approved, created_at, updated_at`

// Create inserts a new unapproved review.
func (r *ReviewRepo) Create(ctx context.Context, req *hotel.CreateReviewRequest) (*hotel.Review, error) {
	if req == nil {
		return nil, errors.New("create review request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out hotel.Review
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO reviews (guest_name, rating, comment, approved, created_at, updated_at)
			VALUES ($1, $2, $3, FALSE, $4, $4)
			RETURNING `+reviewColumns,
			strings.TrimSpace(req.GuestName),
			req.Rating,
			req.Comment,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Review])
		return err
	}); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &out, nil
}

// List retrieves reviews newest first. With approvedOnly, only moderated
// reviews visible on the public site are returned.
func (r *ReviewRepo) List(ctx context.Context, approvedOnly bool) ([]*hotel.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`
	if approvedOnly {
		query = `SELECT ` + reviewColumns + ` FROM reviews WHERE approved ORDER BY created_at DESC`
	}

	var rowsOut []hotel.Review
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[hotel.Review])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	res := make([]*hotel.Review, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetApproved flips the moderation flag and returns the updated review.
func (r *ReviewRepo) SetApproved(ctx context.Context, id string, approved bool) (*hotel.Review, error) {
	var out hotel.Review
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			UPDATE reviews SET approved = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+reviewColumns,
			approved, r.timeProvider.Now().UTC(), id)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Review])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("set review approved: %w", err)
	}
	return &out, nil
}

// Delete deletes a review by ID.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
