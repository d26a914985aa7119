package ports

import (
	"context"
	"time"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

// RoomRepository provides persistence for rooms.
type RoomRepository interface {
	Create(ctx context.Context, req *hotel.CreateRoomRequest) (*hotel.Room, error)
	GetByID(ctx context.Context, id string) (*hotel.Room, error)
	List(ctx context.Context, opts hotel.RoomsListOptions) ([]*hotel.Room, error)
	Update(ctx context.Context, id string, req hotel.UpdateRoomRequest) (*hotel.Room, error)
	Delete(ctx context.Context, id string) error
}

// BookingRepository provides persistence for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *hotel.Booking) (*hotel.Booking, error)
	GetByID(ctx context.Context, id string) (*hotel.Booking, error)
	List(ctx context.Context, opts hotel.BookingsListOptions) ([]*hotel.Booking, error)
	// UpdateStatus moves the booking to next and returns the updated row.
	UpdateStatus(ctx context.Context, id string, next hotel.BookingStatus) (*hotel.Booking, error)
	// CancelStalePending cancels pending bookings created before cutoff
	// and returns how many were cancelled.
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	// CompleteDepartedStays completes confirmed bookings whose checkout
	// date is before asOf and returns how many were completed.
	CompleteDepartedStays(ctx context.Context, asOf time.Time) (int64, error)
}

// ReviewRepository provides persistence for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, req *hotel.CreateReviewRequest) (*hotel.Review, error)
	List(ctx context.Context, approvedOnly bool) ([]*hotel.Review, error)
	SetApproved(ctx context.Context, id string, approved bool) (*hotel.Review, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository provides persistence for contact messages.
type MessageRepository interface {
	Create(ctx context.Context, req *hotel.CreateMessageRequest) (*hotel.ContactMessage, error)
	List(ctx context.Context) ([]*hotel.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}

// SettingsRepository provides persistence for the singleton site settings.
type SettingsRepository interface {
	// Get returns the stored settings, or ErrSettingsNotFound when the
	// row has never been written.
	Get(ctx context.Context) (*hotel.SiteSettings, error)
	// Upsert replaces the stored settings.
	Upsert(ctx context.Context, s hotel.SiteSettings) (*hotel.SiteSettings, error)
}
