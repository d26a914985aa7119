package httpx

import (
	"net/http"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// ReviewHandlers provides HTTP handlers for guest reviews. Submission and the
// approved listing are public; moderation is staff-only via route wiring.
type ReviewHandlers struct {
	Svc *service.ReviewService
}

type createReviewRequest struct {
	GuestName string `json:"guest_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create handles POST /api/reviews. New reviews start unapproved and stay off
// the public listing until moderated.
func (h *ReviewHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	review, err := h.Svc.Submit(r.Context(), &hotel.CreateReviewRequest{
		GuestName: req.GuestName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, review)
}

// ListPublic handles GET /api/reviews and returns approved reviews only.
func (h *ReviewHandlers) ListPublic(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Svc.ListPublic(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// ListAll handles GET /api/admin/reviews and includes unmoderated reviews.
func (h *ReviewHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Svc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type moderateReviewRequest struct {
	Approved bool `json:"approved"`
}

// Moderate handles POST /api/reviews/{id}/moderate.
func (h *ReviewHandlers) Moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateReviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	review, err := h.Svc.Moderate(r.Context(), r.PathValue("id"), req.Approved)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
