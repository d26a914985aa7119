package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bhotel/bhotel-ui-api/internal/data/pgxutil"
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// UserRepo provides database operations for user accounts. It implements
// both the role store consumed by the session layer and the credential store
// consumed by the password identity provider.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider.
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const userColumns = `id, email, name, role, password_hash, created_at, updated_at`

// role normalizes the stored role string at the repo boundary. Rows carrying
// a value the domain no longer recognizes come back as RoleUnknown rather
// than leaking an unparsed string into the role type.
func (row userRow) role() domainauth.Role {
	return domainauth.ParseRole(row.Role)
}

// GetRole resolves the stored role for a user. Returns ports.ErrRoleNotFound
// when no account exists, which callers treat as distinct from lookup
// failure.
func (r *UserRepo) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	row, err := r.getByQuery(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domainauth.RoleAbsent, ports.ErrRoleNotFound
		}
		return domainauth.RoleAbsent, fmt.Errorf("get role: %w", err)
	}
	return row.role(), nil
}

// SetRole writes only the role column, leaving the rest of the profile
// untouched.
func (r *UserRepo) SetRole(ctx context.Context, userID string, role domainauth.Role) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx,
			`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
			string(role), r.timeProvider.Now().UTC(), userID)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if affected == 0 {
		return ports.ErrRoleNotFound
	}
	return nil
}

// EnsureProfile creates the account record if it does not exist. An existing
// record, whether matched by ID or email, is left untouched.
func (r *UserRepo) EnsureProfile(ctx context.Context, profile ports.UserProfile) error {
	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO users (id, email, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (id) DO NOTHING`,
			profile.UserID,
			strings.ToLower(strings.TrimSpace(profile.Email)),
			profile.Name,
			string(profile.Role),
			now)
		return execErr
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Same email under a different ID; the account already exists.
			return nil
		}
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

// FindByEmail returns the credential for the email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (ports.Credential, error) {
	row, err := r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ports.Credential{}, ports.ErrCredentialNotFound
		}
		return ports.Credential{}, fmt.Errorf("find credential: %w", err)
	}
	return ports.Credential{
		UserID:       row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
	}, nil
}

// Create stores a new account with its password hash. New accounts start
// with the default role.
func (r *UserRepo) Create(ctx context.Context, cred ports.Credential) error {
	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			cred.UserID,
			strings.ToLower(strings.TrimSpace(cred.Email)),
			cred.Name,
			string(domainauth.DefaultRole),
			cred.PasswordHash,
			now)
		return execErr
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx,
			`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
			passwordHash, r.timeProvider.Now().UTC(), userID)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetProfile returns the profile record for the user.
func (r *UserRepo) GetProfile(ctx context.Context, userID string) (ports.UserProfile, error) {
	row, err := r.getByQuery(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return ports.UserProfile{}, err
	}
	return ports.UserProfile{
		UserID: row.ID,
		Email:  row.Email,
		Name:   row.Name,
		Role:   row.role(),
	}, nil
}

func (r *UserRepo) getByQuery(ctx context.Context, q string, args ...any) (userRow, error) {
	var row userRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, q, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		row, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userRow{}, ErrUserNotFound
		}
		return userRow{}, fmt.Errorf("query user: %w", err)
	}
	return row, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
