package session

import "errors"

// Error taxonomy for session operations. Collaborator failures are caught at
// the controller boundary, logged, and re-thrown as one of these so callers
// can branch without knowing provider internals.
var (
	// ErrAuthenticationFailed wraps a credential or provider rejection
	// during sign-in or sign-up. Never retried automatically.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRoleLookupFailed wraps a role store read failure during
	// resolution. Recovered locally by treating the role as absent.
	ErrRoleLookupFailed = errors.New("role lookup failed")

	// ErrRoleWriteFailed wraps a role store write failure during sign-up,
	// first federated login, or SetRole. For the sign-up path this leaves
	// an identity with no role record; there is no compensating deletion.
	ErrRoleWriteFailed = errors.New("role write failed")

	// ErrNoActiveSession is returned by SetRole when no identity is
	// signed in. No external call is attempted.
	ErrNoActiveSession = errors.New("no active session")
)
