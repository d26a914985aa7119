package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// BookingHandlers provides HTTP handlers for booking operations. Creation is
// public (the book-now form); listing and the status workflow are staff-only
// via route wiring.
type BookingHandlers struct {
	Svc *service.BookingService
}

type createBookingRequest struct {
	RoomID     string `json:"room_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// Create handles POST /api/bookings.
func (h *BookingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	checkIn, ok := parseStayDate(w, "check_in", req.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseStayDate(w, "check_out", req.CheckOut)
	if !ok {
		return
	}

	booking, err := h.Svc.Create(r.Context(), &hotel.CreateBookingRequest{
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings?status=<status>&limit=&offset=.
func (h *BookingHandlers) List(w http.ResponseWriter, r *http.Request) {
	var opts hotel.BookingsListOptions
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := hotel.ParseBookingStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status_filter",
				Err:     errors.New("unknown booking status"),
			})
			return
		}
		opts.Status = &status
	}
	opts.Limit = intQueryParam(r, "limit")
	opts.Offset = intQueryParam(r, "offset")

	bookings, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// GetByID handles GET /api/bookings/{id}.
func (h *BookingHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, booking)
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/bookings/{id}/status. Transitions outside
// the booking workflow are rejected with 409.
func (h *BookingHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateBookingStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	next, ok := hotel.ParseBookingStatus(req.Status)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_status",
			Err:     errors.New("unknown booking status"),
		})
		return
	}

	booking, err := h.Svc.UpdateStatus(r.Context(), r.PathValue("id"), next)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, booking)
}

// parseStayDate accepts a calendar date ("2026-03-14") or an RFC 3339
// timestamp, writing a 400 on anything else.
func parseStayDate(w http.ResponseWriter, field, raw string) (time.Time, bool) {
	if raw == "" {
		// The service reports the missing-dates validation error.
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusBadRequest,
		ErrCode: "invalid_date",
		Err:     errors.New(field + " must be a YYYY-MM-DD date or RFC 3339 timestamp"),
	})
	return time.Time{}, false
}
