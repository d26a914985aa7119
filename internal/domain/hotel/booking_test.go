package hotel

import (
	"errors"
	"testing"
	"time"
)

func TestBookingStatus_CanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingConfirmed, BookingCompleted},
		{BookingConfirmed, BookingCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingPending, BookingCompleted},
		{BookingPending, BookingPending},
		{BookingConfirmed, BookingPending},
		{BookingCancelled, BookingConfirmed},
		{BookingCancelled, BookingPending},
		{BookingCompleted, BookingCancelled},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestBookingStatus_Transition_Errors(t *testing.T) {
	if err := BookingPending.Transition(BookingConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := BookingCompleted.Transition(BookingConfirmed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	err = BookingPending.Transition(BookingStatus("archived"))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}

func TestQuoteStay(t *testing.T) {
	base := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	q := QuoteStay(10000, base, base.Add(3*24*time.Hour))
	if q.Nights != 3 || q.TotalCents != 30000 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	// Partial nights round up.
	q = QuoteStay(10000, base, base.Add(36*time.Hour))
	if q.Nights != 2 || q.TotalCents != 20000 {
		t.Fatalf("expected partial night to round up, got %+v", q)
	}

	// Same-day stays are charged as one night.
	q = QuoteStay(12500, base, base)
	if q.Nights != 1 || q.TotalCents != 12500 {
		t.Fatalf("expected minimum one night, got %+v", q)
	}
}

func TestCreateBookingRequest_Validate(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	valid := CreateBookingRequest{
		RoomID:     "room-1",
		GuestName:  "Ann Example",
		GuestEmail: "ann@example.com",
		GuestPhone: "+1 555 0100",
		CheckIn:    base,
		CheckOut:   base.Add(48 * time.Hour),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateBookingRequest)
		want   error
	}{
		{"missing room", func(r *CreateBookingRequest) { r.RoomID = " " }, ErrBookingRoomRequired},
		{"missing guest", func(r *CreateBookingRequest) { r.GuestPhone = "" }, ErrBookingGuestRequired},
		{"bad email", func(r *CreateBookingRequest) { r.GuestEmail = "not-an-email" }, ErrBookingEmailInvalid},
		{"zero dates", func(r *CreateBookingRequest) { r.CheckIn = time.Time{} }, ErrBookingDatesRequired},
		{"checkout before checkin", func(r *CreateBookingRequest) { r.CheckOut = base.Add(-24 * time.Hour) }, ErrBookingDateOrder},
		{"checkout equals checkin", func(r *CreateBookingRequest) { r.CheckOut = base }, ErrBookingDateOrder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			if err := req.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseBookingStatus(t *testing.T) {
	if s, ok := ParseBookingStatus(" Confirmed "); !ok || s != BookingConfirmed {
		t.Fatalf("got %q, %v", s, ok)
	}
	if _, ok := ParseBookingStatus("archived"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
