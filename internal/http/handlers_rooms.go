package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// RoomHandlers provides HTTP handlers for room operations. Reads are public;
// writes are admin-only via route wiring.
type RoomHandlers struct {
	Svc *service.RoomService
}

type createRoomRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Capacity    int      `json:"capacity"`
	SizeSqm     int      `json:"size_sqm"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Available   *bool    `json:"available"`
}

// Create handles POST /api/rooms.
func (h *RoomHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	room, err := h.Svc.Create(r.Context(), &hotel.CreateRoomRequest{
		Name:        req.Name,
		Type:        hotel.RoomType(req.Type),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Capacity:    req.Capacity,
		SizeSqm:     req.SizeSqm,
		Amenities:   req.Amenities,
		Images:      req.Images,
		Available:   req.Available,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, room)
}

// List handles GET /api/rooms?type=<type>&available=<bool>&limit=&offset=.
func (h *RoomHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts, ok := roomsListOptionsFromQuery(w, r)
	if !ok {
		return
	}

	rooms, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// GetByID handles GET /api/rooms/{id}.
func (h *RoomHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	room, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, room)
}

type updateRoomRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	PriceCents  *int64   `json:"price_cents"`
	Capacity    *int     `json:"capacity"`
	SizeSqm     *int     `json:"size_sqm"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Available   *bool    `json:"available"`
}

// Update handles PUT /api/rooms/{id}. Absent fields are left unchanged.
func (h *RoomHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRoomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	upd := hotel.UpdateRoomRequest{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Capacity:    req.Capacity,
		SizeSqm:     req.SizeSqm,
		Amenities:   req.Amenities,
		Images:      req.Images,
		Available:   req.Available,
	}
	if req.Type != nil {
		rt := hotel.RoomType(*req.Type)
		upd.Type = &rt
	}

	room, err := h.Svc.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/{id}.
func (h *RoomHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadImage handles POST /api/rooms/{id}/images. The image bytes are the
// request body; the Content-Type header selects the stored extension.
func (h *RoomHandlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_content_type",
			Err:     errors.New("Content-Type header is required"),
		})
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	room, err := h.Svc.UploadImage(r.Context(), r.PathValue("id"), contentType, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{
				Code:    http.StatusRequestEntityTooLarge,
				ErrCode: "image_too_large",
				Err:     err,
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, room)
}

// roomsListOptionsFromQuery parses list filters, writing a 400 on bad input.
func roomsListOptionsFromQuery(w http.ResponseWriter, r *http.Request) (hotel.RoomsListOptions, bool) {
	var opts hotel.RoomsListOptions

	if raw := r.URL.Query().Get("type"); raw != "" {
		rt, ok := hotel.ParseRoomType(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_room_type",
				Err:     errors.New("unknown room type " + strconv.Quote(raw)),
			})
			return opts, false
		}
		opts.Type = &rt
	}

	if raw := r.URL.Query().Get("available"); raw != "" {
		avail, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_available_filter",
				Err:     err,
			})
			return opts, false
		}
		opts.Available = &avail
	}

	opts.Limit = intQueryParam(r, "limit")
	opts.Offset = intQueryParam(r, "offset")
	return opts, true
}

// intQueryParam returns the named query parameter as a non-negative int,
// or zero when missing or malformed.
func intQueryParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
