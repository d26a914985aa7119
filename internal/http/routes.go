package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Rooms    *service.RoomService
	Bookings *service.BookingService
	Reviews  *service.ReviewService
	Messages *service.MessageService
	Settings *service.SettingsService

	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	guard := guardConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
		registerAuthRoutes(mux, authHandlers, guard)
	}
	if services.Rooms != nil {
		registerRoomRoutes(mux, &RoomHandlers{Svc: services.Rooms}, guard)
	}
	if services.Bookings != nil {
		registerBookingRoutes(mux, &BookingHandlers{Svc: services.Bookings}, guard)
	}
	if services.Reviews != nil {
		registerReviewRoutes(mux, &ReviewHandlers{Svc: services.Reviews}, guard)
	}
	if services.Messages != nil {
		registerMessageRoutes(mux, &MessageHandlers{Svc: services.Messages}, guard)
	}
	if services.Settings != nil {
		registerSettingsRoutes(mux, &SettingsHandlers{Svc: services.Settings}, guard)
	}

	return BrowserDetection()(mux)
}

// guardConfig holds what the route guards need: the auth service for session
// resolution and the cookie domain for the CSRF cookie.
type guardConfig struct {
	Auth         AuthServiceInterface
	CookieDomain string
}

// staffWrap protects dashboard routes: staff or admin sessions only, with
// CSRF validation on state-changing methods. A nil auth service leaves the
// route open, which only happens in tests that wire a partial router.
func (cfg guardConfig) staffWrap() func(http.Handler) http.Handler {
	return cfg.roleWrap(domainauth.DashboardRoles())
}

// adminWrap protects admin-only routes the same way.
func (cfg guardConfig) adminWrap() func(http.Handler) http.Handler {
	return cfg.roleWrap([]domainauth.Role{domainauth.RoleAdmin})
}

func (cfg guardConfig) roleWrap(required []domainauth.Role) func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	roleCheck := RequireRoleBrowser(cfg.Auth, required)
	return func(h http.Handler) http.Handler {
		return roleCheck(csrf(h))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg guardConfig) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /api/auth/login", h.PasswordLogin)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/reset-password", h.RequestPasswordReset)
	mux.HandleFunc("POST /api/auth/reset-password/confirm", h.ConfirmPasswordReset)

	wrapAdmin := cfg.adminWrap()
	mux.Handle("POST /api/auth/role", wrapAdmin(http.HandlerFunc(h.SetRole)))
}

func registerRoomRoutes(mux *http.ServeMux, h *RoomHandlers, cfg guardConfig) {
	mux.HandleFunc("GET /api/rooms", h.List)
	mux.HandleFunc("GET /api/rooms/{id}", h.GetByID)

	wrapAdmin := cfg.adminWrap()
	mux.Handle("POST /api/rooms", wrapAdmin(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/rooms/{id}", wrapAdmin(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/rooms/{id}", wrapAdmin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/rooms/{id}/images", wrapAdmin(http.HandlerFunc(h.UploadImage)))
}

func registerBookingRoutes(mux *http.ServeMux, h *BookingHandlers, cfg guardConfig) {
	// The book-now form posts without a session.
	mux.HandleFunc("POST /api/bookings", h.Create)

	wrapStaff := cfg.staffWrap()
	mux.Handle("GET /api/bookings", wrapStaff(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/bookings/{id}", wrapStaff(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/bookings/{id}/status", wrapStaff(http.HandlerFunc(h.UpdateStatus)))
}

func registerReviewRoutes(mux *http.ServeMux, h *ReviewHandlers, cfg guardConfig) {
	mux.HandleFunc("GET /api/reviews", h.ListPublic)
	mux.HandleFunc("POST /api/reviews", h.Create)

	wrapStaff := cfg.staffWrap()
	mux.Handle("GET /api/admin/reviews", wrapStaff(http.HandlerFunc(h.ListAll)))
	mux.Handle("POST /api/reviews/{id}/moderate", wrapStaff(http.HandlerFunc(h.Moderate)))
	mux.Handle("DELETE /api/reviews/{id}", wrapStaff(http.HandlerFunc(h.Delete)))
}

func registerMessageRoutes(mux *http.ServeMux, h *MessageHandlers, cfg guardConfig) {
	mux.HandleFunc("POST /api/messages", h.Create)

	wrapStaff := cfg.staffWrap()
	mux.Handle("GET /api/messages", wrapStaff(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/messages/{id}/read", wrapStaff(http.HandlerFunc(h.MarkRead)))
}

func registerSettingsRoutes(mux *http.ServeMux, h *SettingsHandlers, cfg guardConfig) {
	mux.HandleFunc("GET /api/settings", h.Get)

	wrapAdmin := cfg.adminWrap()
	mux.Handle("PUT /api/settings", wrapAdmin(http.HandlerFunc(h.Update)))
}
