package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// ErrRoomUnavailable is returned when a booking targets a room that is not
// open for booking.
var ErrRoomUnavailable = errors.New("room is not available for booking")

// BookingServiceOptions groups dependencies for BookingService.
type BookingServiceOptions struct {
	Bookings ports.BookingRepository // Required: booking repository
	Rooms    ports.RoomRepository    // Required: room repository
	Notifier ports.Notifier          // Optional: staff notifications
	Logger   *slog.Logger            // Optional: structured logger
}

// BookingService provides business logic for guest bookings: pricing,
// creation, and the admin status workflow.
type BookingService struct {
	bookings ports.BookingRepository
	rooms    ports.RoomRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewBookingService constructs a new BookingService.
func NewBookingService(opts BookingServiceOptions) (*BookingService, error) {
	if opts.Bookings == nil {
		return nil, errors.New("BookingRepository is required")
	}
	if opts.Rooms == nil {
		return nil, errors.New("RoomRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BookingService{
		bookings: opts.Bookings,
		rooms:    opts.Rooms,
		notifier: opts.Notifier,
		logger:   logger.With("component", "booking_service"),
	}, nil
}

// Create prices the stay and records a pending booking. The room name is
// denormalized onto the booking so admin lists render without a join.
func (s *BookingService) Create(ctx context.Context, req *hotel.CreateBookingRequest) (*hotel.Booking, error) {
	if req == nil {
		return nil, errors.New("create booking request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Available {
		return nil, ErrRoomUnavailable
	}

	quote := hotel.QuoteStay(room.PriceCents, req.CheckIn, req.CheckOut)
	booking := &hotel.Booking{
		RoomID:     room.ID,
		RoomName:   room.Name,
		GuestName:  StripHTML(req.GuestName),
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Nights:     quote.Nights,
		TotalCents: quote.TotalCents,
		Status:     hotel.BookingPending,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.InfoContext(ctx, "booking created",
		"booking_id", created.ID,
		"room_id", created.RoomID,
		"nights", created.Nights,
	)
	s.notify(ctx, "booking.created", "New booking for "+created.RoomName, created)
	return created, nil
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, id string) (*hotel.Booking, error) {
	if id == "" {
		return nil, errors.New("booking ID is required")
	}
	return s.bookings.GetByID(ctx, id)
}

// List retrieves bookings for the admin page, newest first.
func (s *BookingService) List(ctx context.Context, opts hotel.BookingsListOptions) ([]*hotel.Booking, error) {
	bookings, err := s.bookings.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus moves a booking along the status workflow. Illegal moves are
// rejected with hotel.ErrInvalidTransition.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, next hotel.BookingStatus) (*hotel.Booking, error) {
	if id == "" {
		return nil, errors.New("booking ID is required")
	}
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", hotel.ErrInvalidTransition, string(next))
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking status updated", "booking_id", id, "status", next)
	s.notify(ctx, "booking."+string(next), "Booking "+string(next)+": "+updated.RoomName, updated)
	return updated, nil
}

// notify delivers a staff notification. Delivery failures are logged and
// never block the triggering operation.
func (s *BookingService) notify(ctx context.Context, kind, title string, b *hotel.Booking) {
	if s.notifier == nil {
		return
	}
	n := ports.Notification{
		Kind:  kind,
		Title: title,
		Payload: map[string]any{
			"booking_id":  b.ID,
			"room":        b.RoomName,
			"guest":       b.GuestName,
			"guest_email": b.GuestEmail,
			"check_in":    b.CheckIn,
			"check_out":   b.CheckOut,
			"nights":      b.Nights,
			"total_cents": b.TotalCents,
			"status":      string(b.Status),
		},
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "booking notification failed", "kind", kind, "error", err)
	}
}
