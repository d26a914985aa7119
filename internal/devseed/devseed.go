// Package devseed populates a development database with an admin account,
// a starter room inventory, and default site settings. It is only invoked in
// dev mode and by the admin CLI's seed command.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminUserID = "dev-admin"
	adminEmail  = "admin@b-hotel.test"
	adminName   = "Dev Admin"
	// adminPassword is the well-known dev password. Never seeded outside
	// dev databases.
	adminPassword = "bhotel-admin"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB       *sql.DB
	users    *data.UserRepo
	rooms    *data.RoomRepo
	settings *data.SettingsRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:       db,
		users:    data.NewUserRepo(db),
		rooms:    data.NewRoomRepo(db),
		settings: data.NewSettingsRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	failures := 0
	if err := seedAdmin(ctx, svcs.users, logger); err != nil {
		logger.WarnContext(ctx, "failed to seed admin account", "error", err)
		failures++
	}
	failures += seedRooms(ctx, svcs.rooms, logger)
	if err := seedSettings(ctx, svcs.settings, logger); err != nil {
		logger.WarnContext(ctx, "failed to seed site settings", "error", err)
		failures++
	}

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// seedAdmin creates the dev admin credential and promotes it. An existing
// account is left untouched apart from the role.
func seedAdmin(ctx context.Context, users *data.UserRepo, logger *slog.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = users.Create(ctx, ports.Credential{
		UserID:       adminUserID,
		Email:        adminEmail,
		Name:         adminName,
		PasswordHash: string(hash),
	})
	switch {
	case err == nil:
		logger.InfoContext(ctx, "seeded admin account", "email", adminEmail)
	case errors.Is(err, ports.ErrEmailTaken):
		// Already seeded.
	default:
		return fmt.Errorf("create admin credential: %w", err)
	}

	if err := users.EnsureProfile(ctx, ports.UserProfile{
		UserID: adminUserID,
		Email:  adminEmail,
		Name:   adminName,
		Role:   domainauth.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("ensure admin profile: %w", err)
	}
	return users.SetRole(ctx, adminUserID, domainauth.RoleAdmin)
}

func seedRooms(ctx context.Context, rooms *data.RoomRepo, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultRooms() {
		created, err := createRoomIfMissing(ctx, rooms, req)
		if err != nil {
			logger.WarnContext(ctx, "failed to seed room", "room", req.Name, "error", err)
			failures++
			continue
		}
		if created {
			logger.InfoContext(ctx, "seeded room", "room", req.Name)
		}
	}
	return failures
}

func createRoomIfMissing(ctx context.Context, rooms *data.RoomRepo, req *hotel.CreateRoomRequest) (bool, error) {
	_, err := rooms.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrRoomNameExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func defaultRooms() []*hotel.CreateRoomRequest {
	return []*hotel.CreateRoomRequest{
		{
			Name:        "Standard Double",
			Type:        hotel.RoomTypeStandard,
			Description: "Cosy double room overlooking the courtyard.",
			PriceCents:  12000,
			Capacity:    2,
			SizeSqm:     18,
			Amenities:   []string{"Free WiFi", "Air Conditioning", "TV"},
		},
		{
			Name:        "Deluxe Sea View",
			Type:        hotel.RoomTypeDeluxe,
			Description: "Spacious room with a balcony facing the sea.",
			PriceCents:  22000,
			Capacity:    2,
			SizeSqm:     28,
			Amenities:   []string{"Free WiFi", "Air Conditioning", "TV", "Mini Bar"},
		},
		{
			Name:        "Family Suite",
			Type:        hotel.RoomTypeFamily,
			Description: "Two bedrooms and a living area for up to five guests.",
			PriceCents:  35000,
			Capacity:    5,
			SizeSqm:     52,
			Amenities:   []string{"Free WiFi", "Air Conditioning", "TV"},
		},
	}
}

// seedSettings writes the default settings only when none exist yet so admin
// edits survive a reseed.
func seedSettings(ctx context.Context, settings *data.SettingsRepo, logger *slog.Logger) error {
	_, err := settings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, data.ErrSettingsNotFound) {
		return fmt.Errorf("read settings: %w", err)
	}

	if _, err := settings.Upsert(ctx, hotel.DefaultSettings()); err != nil {
		return fmt.Errorf("write default settings: %w", err)
	}
	logger.InfoContext(ctx, "seeded default site settings")
	return nil
}
