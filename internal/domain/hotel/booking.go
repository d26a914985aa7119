package hotel

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking request.
// Transitions are checked; the admin UI may only move a booking along
// CanTransition edges.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether the status is supported.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// ParseBookingStatus normalizes a status string and reports whether it is supported.
func ParseBookingStatus(value string) (BookingStatus, bool) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// CanTransition reports whether a booking may move from s to next.
// pending -> confirmed | cancelled; confirmed -> completed | cancelled.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// Transition validates the move from s to next.
func (s BookingStatus) Transition(next BookingStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, string(next))
	}
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// Booking is a guest booking request for a room.
// RoomName is denormalized at creation time so the admin list renders without
// a join even after the room is edited or deleted.
type Booking struct {
	ID         string        `json:"id"          db:"id"`
	RoomID     string        `json:"room_id"     db:"room_id"`
	RoomName   string        `json:"room_name"   db:"room_name"`
	GuestName  string        `json:"guest_name"  db:"guest_name"`
	GuestEmail string        `json:"guest_email" db:"guest_email"`
	GuestPhone string        `json:"guest_phone" db:"guest_phone"`
	CheckIn    time.Time     `json:"check_in"    db:"check_in"`
	CheckOut   time.Time     `json:"check_out"   db:"check_out"`
	Nights     int           `json:"nights"      db:"nights"`
	TotalCents int64         `json:"total_cents" db:"total_cents"`
	Status     BookingStatus `json:"status"      db:"status"`
	CreatedAt  time.Time     `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"  db:"updated_at"`
}

// Quote is a computed price for a stay.
type Quote struct {
	Nights     int
	TotalCents int64
}

// QuoteStay computes the number of nights and the total price for a stay.
// Partial nights round up, and a same-day stay is charged as one night.
func QuoteStay(pricePerNightCents int64, checkIn, checkOut time.Time) Quote {
	const day = 24 * time.Hour
	span := checkOut.Sub(checkIn)
	nights := int((span + day - 1) / day)
	if nights < 1 {
		nights = 1
	}
	return Quote{Nights: nights, TotalCents: pricePerNightCents * int64(nights)}
}

// CreateBookingRequest carries validated guest input from the book-now form.
type CreateBookingRequest struct {
	RoomID     string
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    time.Time
	CheckOut   time.Time
}

var (
	ErrBookingRoomRequired  = errors.New("room is required")
	ErrBookingGuestRequired = errors.New("guest name, email and phone are required")
	ErrBookingEmailInvalid  = errors.New("guest email is invalid")
	ErrBookingDatesRequired = errors.New("check-in and check-out dates are required")
	ErrBookingDateOrder     = errors.New("check-out date must be after check-in date")
)

// Validate checks the create request fields. Check-out must be strictly
// after check-in.
func (r *CreateBookingRequest) Validate() error {
	if strings.TrimSpace(r.RoomID) == "" {
		return ErrBookingRoomRequired
	}
	if strings.TrimSpace(r.GuestName) == "" ||
		strings.TrimSpace(r.GuestEmail) == "" ||
		strings.TrimSpace(r.GuestPhone) == "" {
		return ErrBookingGuestRequired
	}
	if _, err := mail.ParseAddress(r.GuestEmail); err != nil {
		return ErrBookingEmailInvalid
	}
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrBookingDatesRequired
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrBookingDateOrder
	}
	return nil
}

// BookingsListOptions controls filtering for the admin bookings page.
type BookingsListOptions struct {
	Limit  int
	Offset int
	Status *BookingStatus
}
