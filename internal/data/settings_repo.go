package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bhotel/bhotel-ui-api/internal/data/pgxutil"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

// SettingsRepo persists the singleton site settings row as JSONB.
type SettingsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSettingsRepo creates a new SettingsRepo with real time provider.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewSettingsRepoWithTimeProvider creates a new SettingsRepo with a custom time provider.
func NewSettingsRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SettingsRepo {
	return &SettingsRepo{DB: db, timeProvider: tp}
}

// Get returns the stored settings, or ErrSettingsNotFound when the row has
// never been written.
func (r *SettingsRepo) Get(ctx context.Context) (*hotel.SiteSettings, error) {
	var (
		data      []byte
		updatedAt time.Time
	)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT data, updated_at FROM site_settings WHERE id = 1`).
			Scan(&data, &updatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get site settings: %w", err)
	}

	var out hotel.SiteSettings
	if unmarshalErr := json.Unmarshal(data, &out); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal site settings: %w", unmarshalErr)
	}
	out.UpdatedAt = updatedAt
	return &out, nil
}

// Upsert replaces the stored settings and returns them with the new
// timestamp.
func (r *SettingsRepo) Upsert(ctx context.Context, s hotel.SiteSettings) (*hotel.SiteSettings, error) {
	now := r.timeProvider.Now().UTC()
	s.UpdatedAt = now

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal site settings: %w", err)
	}

	if execErr := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, e := conn.Exec(ctx, `
			INSERT INTO site_settings (id, data, updated_at)
			VALUES (1, $1, $2)
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
			data, now)
		return e
	}); execErr != nil {
		return nil, fmt.Errorf("upsert site settings: %w", execErr)
	}
	return &s, nil
}
