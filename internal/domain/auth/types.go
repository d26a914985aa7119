package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Kept in string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"

	// RoleUnknown marks a stored role value that is not one of the known
	// constants. Comparisons against it always deny.
	RoleUnknown Role = "unknown"

	// RoleAbsent is the zero value: no role is associated with the session.
	RoleAbsent Role = ""
)

// DefaultRole is assigned to newly created accounts and to federated
// identities seen for the first time.
const DefaultRole = RoleGuest

// ParseRole maps a stored role string to a known Role. Empty input parses to
// RoleAbsent; anything unrecognized parses to RoleUnknown rather than being
// carried through verbatim.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleUser, RoleGuest:
		return Role(s)
	case RoleAbsent:
		return RoleAbsent
	default:
		return RoleUnknown
	}
}

// Known reports whether the role is one of the recognized application roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

// In reports membership of r in the given set. An unknown or absent role is
// never a member.
func (r Role) In(set []Role) bool {
	if !r.Known() {
		return false
	}
	for _, want := range set {
		if r == want {
			return true
		}
	}
	return false
}

// DashboardRoles is the default required-role set for admin dashboard views.
func DashboardRoles() []Role { return []Role{RoleAdmin, RoleStaff} }

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific claims into this shape; it is
// never mutated after the provider returns it. The role is resolved
// separately from the role store and lives on Session, not here.
type Identity struct {
	ID    string // stable user identifier (e.g. sub or a local uuid)
	Email string
	Name  string // display name
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier. It composes the provider identity with
// the store-resolved role.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the identity portion of the session.
func (s Session) Identity() Identity {
	return Identity{ID: s.UserID, Email: s.Email, Name: s.Name}
}

// IsStaff reports whether the session may access dashboard views.
func (s Session) IsStaff() bool { return s.Role.In(DashboardRoles()) }
