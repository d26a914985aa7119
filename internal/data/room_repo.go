package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bhotel/bhotel-ui-api/internal/data/database"
	"github.com/bhotel/bhotel-ui-api/internal/data/pgxutil"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

// RoomRepo provides database operations for rooms.
type RoomRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRoomRepo creates a new RoomRepo with real time provider.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewRoomRepoWithTimeProvider creates a new RoomRepo with a custom time provider.
func NewRoomRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RoomRepo {
	return &RoomRepo{DB: db, timeProvider: tp}
}

const roomColumns = `id, name, type, description, price_cents, capacity, size_sqm, amenities, images, available, created_at, updated_at`

// Create inserts a new room.
func (r *RoomRepo) Create(ctx context.Context, req *hotel.CreateRoomRequest) (*hotel.Room, error) {
	if req == nil {
		return nil, errors.New("create room request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	now := r.timeProvider.Now().UTC()
	var out hotel.Room
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO rooms (
				name, type, description, price_cents, capacity, size_sqm, amenities, images, available, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
			) RETURNING `+roomColumns,
			strings.TrimSpace(req.Name),
			req.Type,
			req.Description,
			req.PriceCents,
			req.Capacity,
			req.SizeSqm,
			amenities,
			images,
			available,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Room])
		return err
	}); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRoomNameExists
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a room by ID.
func (r *RoomRepo) GetByID(ctx context.Context, id string) (*hotel.Room, error) {
	var room hotel.Room
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		room, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Room])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room by ID: %w", err)
	}
	return &room, nil
}

// List retrieves rooms with optional type and availability filters.
func (r *RoomRepo) List(ctx context.Context, opts hotel.RoomsListOptions) ([]*hotel.Room, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(roomColumnList()...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Type != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("type", database.Equal, string(*opts.Type)),
		))
	}
	if opts.Available != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("available", database.Equal, *opts.Available),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("rooms", queryOpts...))

	var rowsOut []hotel.Room
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[hotel.Room])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	res := make([]*hotel.Room, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a room. Nil fields are left unchanged.
func (r *RoomRepo) Update(ctx context.Context, id string, req hotel.UpdateRoomRequest) (*hotel.Room, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out hotel.Room
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		var query string
		if setClause == "" {
			query = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
			args = []any{id}
		} else {
			args = append(args, id)
			query = "UPDATE rooms SET " + setClause +
				" WHERE id = $" + strconv.Itoa(len(args)) +
				" RETURNING " + roomColumns
		}
		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.Room])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrRoomNameExists
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return &out, nil
}

func (r *RoomRepo) buildUpdateClause(req hotel.UpdateRoomRequest) (string, []any) {
	setParts := make([]string, 0, 10)
	args := make([]any, 0, 10)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Type != nil {
		setParts = append(setParts, fmt.Sprintf("type = $%d", nextIdx()))
		args = append(args, *req.Type)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.PriceCents != nil {
		setParts = append(setParts, fmt.Sprintf("price_cents = $%d", nextIdx()))
		args = append(args, *req.PriceCents)
	}
	if req.Capacity != nil {
		setParts = append(setParts, fmt.Sprintf("capacity = $%d", nextIdx()))
		args = append(args, *req.Capacity)
	}
	if req.SizeSqm != nil {
		setParts = append(setParts, fmt.Sprintf("size_sqm = $%d", nextIdx()))
		args = append(args, *req.SizeSqm)
	}
	if req.Amenities != nil {
		setParts = append(setParts, fmt.Sprintf("amenities = $%d", nextIdx()))
		args = append(args, req.Amenities)
	}
	if req.Images != nil {
		setParts = append(setParts, fmt.Sprintf("images = $%d", nextIdx()))
		args = append(args, req.Images)
	}
	if req.Available != nil {
		setParts = append(setParts, fmt.Sprintf("available = $%d", nextIdx()))
		args = append(args, *req.Available)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a room by ID.
func (r *RoomRepo) Delete(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func roomColumnList() []string {
	return []string{
		"id", "name", "type", "description", "price_cents", "capacity",
		"size_sqm", "amenities", "images", "available", "created_at", "updated_at",
	}
}
