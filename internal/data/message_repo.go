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

// MessageRepo provides database operations for contact messages.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo with real time provider.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewMessageRepoWithTimeProvider creates a new MessageRepo with a custom time provider.
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: tp}
}

const messageColumns = `id, name, email, subject, body, read, created_at`

// Create inserts a new contact message.
func (r *MessageRepo) Create(ctx context.Context, req *hotel.CreateMessageRequest) (*hotel.ContactMessage, error) {
	if req == nil {
		return nil, errors.New("create message request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out hotel.ContactMessage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO contact_messages (name, email, subject, body, read, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)
			RETURNING `+messageColumns,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Email),
			req.Subject,
			req.Body,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[hotel.ContactMessage])
		return err
	}); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return &out, nil
}

// List retrieves contact messages newest first.
func (r *MessageRepo) List(ctx context.Context) ([]*hotel.ContactMessage, error) {
	var rowsOut []hotel.ContactMessage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[hotel.ContactMessage])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	res := make([]*hotel.ContactMessage, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkRead flags a message as read in the admin inbox.
func (r *MessageRepo) MarkRead(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx,
			`UPDATE contact_messages SET read = TRUE WHERE id = $1`, id)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if affected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
