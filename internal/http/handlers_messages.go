package httpx

import (
	"net/http"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// MessageHandlers provides HTTP handlers for the contact form and the staff
// inbox. Submission is public; the inbox is staff-only via route wiring.
type MessageHandlers struct {
	Svc *service.MessageService
}

type createMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Create handles POST /api/messages.
func (h *MessageHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Svc.Submit(r.Context(), &hotel.CreateMessageRequest{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/messages.
func (h *MessageHandlers) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// MarkRead handles POST /api/messages/{id}/read.
func (h *MessageHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
