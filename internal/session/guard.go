package session

import (
	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
)

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// DecisionPending: the first resolution has not completed; render a
	// neutral waiting state, never a redirect.
	DecisionPending Decision = iota
	// DecisionSignIn: no identity; redirect to the sign-in view.
	DecisionSignIn
	// DecisionForbidden: identity present but its role is not in the
	// required set; redirect to the unauthorized view.
	DecisionForbidden
	// DecisionAllow: render the requested view.
	DecisionAllow
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionSignIn:
		return "sign-in"
	case DecisionForbidden:
		return "forbidden"
	case DecisionAllow:
		return "allow"
	default:
		return "invalid"
	}
}

// Evaluate is the pure route-guard decision over a session snapshot and a
// per-route required-role set. An empty required set admits any
// authenticated identity. There is no path from a denied decision back to
// allow without a fresh evaluation against a new State.
func Evaluate(st State, required []domainauth.Role) Decision {
	if st.Loading {
		return DecisionPending
	}
	if st.Identity == nil {
		return DecisionSignIn
	}
	if len(required) == 0 {
		return DecisionAllow
	}
	if st.Role.In(required) {
		return DecisionAllow
	}
	return DecisionForbidden
}
