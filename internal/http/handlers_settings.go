package httpx

import (
	"net/http"

	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// SettingsHandlers provides HTTP handlers for the singleton site settings.
// Reads are public (the site shell needs them); updates are admin-only via
// route wiring.
type SettingsHandlers struct {
	Svc *service.SettingsService
}

// Get handles GET /api/settings.
func (h *SettingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings. The full settings document is replaced.
func (h *SettingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var settings hotel.SiteSettings
	if !DecodeJSON(w, r, &settings) {
		return
	}

	updated, err := h.Svc.Update(r.Context(), settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
