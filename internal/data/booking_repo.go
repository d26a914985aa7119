package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bhotel/bhotel-ui-api/internal/data/database"
	"github.com/bhotel/bhotel-ui-api/internal/data/pgxutil"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

// BookingRepo provides database operations for bookings.
type BookingRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBookingRepo creates a new BookingRepo with real time provider.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewBookingRepoWithTimeProvider creates a new BookingRepo with a custom time provider.
func NewBookingRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *BookingRepo {
	return &BookingRepo{DB: db, timeProvider: tp}
}

const bookingColumns = `id, room_id, room_name, guest_name, guest_email, guest_phone, check_in, check_out, nights, total_cents, status, created_at, updated_at`

// Create inserts a new booking. The caller has already priced the stay and
// denormalized the room name.
func (r *BookingRepo) Create(ctx context.Context, b *hotel.Booking) (*hotel.Booking, error) {
	if b == nil {
		return nil, errors.New("booking is required")
	}

	status := b.Status
	if status == "" {
		status = hotel.BookingPending
	}

	now := r.timeProvider.Now().UTC()
	var out hotel.Booking
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO bookings (
				room_id, room_name, guest_name, guest_email, guest_phone,
				check_in, check_out, nights, total_cents, status, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
			) RETURNING `+bookingColumns,
			b.RoomID,
			b.RoomName,
			b.GuestName,
			b.GuestEmail,
			b.GuestPhone,
			b.CheckIn,
			b.CheckOut,
			b.Nights,
			b.TotalCents,
			status,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Booking])
		return err
	}); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*hotel.Booking, error) {
	var booking hotel.Booking
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		booking, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Booking])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking by ID: %w", err)
	}
	return &booking, nil
}

// List retrieves bookings newest first with an optional status filter.
func (r *BookingRepo) List(ctx context.Context, opts hotel.BookingsListOptions) ([]*hotel.Booking, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(bookingColumnList()...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("bookings", queryOpts...))

	var rowsOut []hotel.Booking
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[hotel.Booking])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	res := make([]*hotel.Booking, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateStatus moves a booking to next after checking the transition against
// the current row, then returns the updated booking. Both steps run in one
// transaction so a concurrent update cannot slip an illegal transition
// through.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, next hotel.BookingStatus) (*hotel.Booking, error) {
	var out hotel.Booking
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		rows, queryErr := tx.Query(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
		if queryErr != nil {
			return queryErr
		}
		current, collectErr := pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Booking])
		if collectErr != nil {
			return collectErr
		}

		if transitionErr := current.Status.Transition(next); transitionErr != nil {
			return transitionErr
		}

		updated, updateErr := tx.Query(ctx, `
			UPDATE bookings SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+bookingColumns,
			next, r.timeProvider.Now().UTC(), id)
		if updateErr != nil {
			return updateErr
		}
		var e error
		out, e = pgx.CollectOneRow(updated, pgx.RowToStructByName[hotel.Booking])
		return e
	}})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		if errors.Is(err, hotel.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	return &out, nil
}

// CancelStalePending cancels pending bookings created before cutoff and
// returns how many were cancelled.
func (r *BookingRepo) CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `
			UPDATE bookings SET status = $1, updated_at = $2
			WHERE status = $3 AND created_at < $4`,
			hotel.BookingCancelled, r.timeProvider.Now().UTC(), hotel.BookingPending, cutoff)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cancel stale pending bookings: %w", err)
	}
	return affected, nil
}

// CompleteDepartedStays completes confirmed bookings whose checkout date is
// before asOf and returns how many were completed.
func (r *BookingRepo) CompleteDepartedStays(ctx context.Context, asOf time.Time) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `
			UPDATE bookings SET status = $1, updated_at = $2
			WHERE status = $3 AND check_out < $4`,
			hotel.BookingCompleted, r.timeProvider.Now().UTC(), hotel.BookingConfirmed, asOf)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("complete departed stays: %w", err)
	}
	return affected, nil
}

func bookingColumnList() []string {
	return []string{
		"id", "room_id", "room_name", "guest_name", "guest_email", "guest_phone",
		"check_in", "check_out", "nights", "total_cents", "status", "created_at", "updated_at",
	}
}
