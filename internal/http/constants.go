package httpx

const (
	// sessionCookieName carries the server-side session ID.
	sessionCookieName = "session_id"

	// loginPath is where unauthenticated browser requests are sent.
	loginPath = "/login"

	// unauthorizedPath is where browser requests lacking the required role
	// are sent.
	unauthorizedPath = "/unauthorized"

	// oauthCookieTTL bounds the lifetime of the transient OAuth cookies in
	// seconds.
	oauthCookieTTL = 600

	// maxImageUploadBytes caps a room image upload.
	maxImageUploadBytes = 10 << 20
)
