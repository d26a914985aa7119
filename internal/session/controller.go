// Package session owns the in-process session state: who is signed in, with
// what role, and whether the first resolution has completed. The Controller
// is the single source of truth for that state and the only component that
// talks to the identity provider and the role store directly; everything
// else reads State snapshots or subscribes to change notifications.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

// State is the published session snapshot. Identity nil means signed out;
// Role is always absent while Identity is nil. Loading is true from startup
// until the first identity resolution completes.
type State struct {
	Identity *domainauth.Identity
	Role     domainauth.Role
	Loading  bool
}

// SignedIn reports whether an identity is present.
func (s State) SignedIn() bool { return s.Identity != nil }

// ControllerOptions groups dependencies for the Controller.
type ControllerOptions struct {
	Provider ports.IdentityProvider
	Roles    ports.RoleStore
	Logger   *slog.Logger
}

// Controller tracks the current authenticated identity and its role.
// Exactly one Controller exists per running client; it is created at startup
// and torn down with Close.
type Controller struct {
	provider ports.IdentityProvider
	roles    ports.RoleStore
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	// gen increments on every identity change. A role resolution started
	// under an older generation is discarded on completion so a slow
	// lookup can never overwrite a newer identity's state.
	gen     uint64
	subs    map[uint64]chan State
	nextSub uint64

	cancelFeed func()
	done       chan struct{}
	started    bool
}

// NewController constructs a Controller. Call Start to begin listening for
// identity-change notifications.
func NewController(opts ControllerOptions) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		provider: opts.Provider,
		roles:    opts.Roles,
		logger:   logger,
		state:    State{Loading: true},
		subs:     make(map[uint64]chan State),
	}
}

// Start subscribes to the provider's identity-change feed and processes
// notifications one at a time until Close is called or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("session controller already started")
	}
	c.started = true
	c.mu.Unlock()

	events, cancel := c.provider.AuthStateChanges()
	c.cancelFeed = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				c.applyAuthEvent(ctx, ev)
			}
		}
	}()
	return nil
}

// Close cancels the identity-change subscription and releases subscribers.
// Safe to call once after Start.
func (c *Controller) Close() {
	if c.cancelFeed != nil {
		c.cancelFeed()
	}
	if c.done != nil {
		<-c.done
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers for state-change notifications. The channel is
// buffered; a slow subscriber misses intermediate states, never the final
// one it reads last. The returned cancel func releases the subscription.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan State, 8)
	c.subs[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			close(sub)
			delete(c.subs, id)
		}
	}
	return ch, cancel
}

// SignIn authenticates with email/password. On success the session state is
// updated with the identity and a freshly resolved role. On failure the
// state is left untouched and ErrAuthenticationFailed is returned.
func (c *Controller) SignIn(ctx context.Context, email, password string) (State, error) {
	identity, err := c.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.logger.WarnContext(ctx, "password sign-in rejected", "email", email, "error", err)
		return State{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	gen := c.beginIdentityChange()
	role := c.resolveRole(ctx, identity.ID)
	st := c.applyResolution(gen, &identity, role)
	return st, nil
}

// SignUp creates an account, writes the default role record, and signs the
// new identity in. If the role write fails after the account was created the
// identity still exists at the provider (no compensating rollback); the
// session carries the identity with an absent role and ErrRoleWriteFailed is
// returned.
func (c *Controller) SignUp(ctx context.Context, email, password, name string) (State, error) {
	identity, err := c.provider.CreateAccount(ctx, email, password, name)
	if err != nil {
		c.logger.WarnContext(ctx, "account creation rejected", "email", email, "error", err)
		return State{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	gen := c.beginIdentityChange()
	profile := ports.UserProfile{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   domainauth.DefaultRole,
	}
	if err := c.roles.EnsureProfile(ctx, profile); err != nil {
		c.logger.ErrorContext(ctx, "default role write failed after account creation",
			"user_id", identity.ID, "error", err)
		st := c.applyResolution(gen, &identity, domainauth.RoleAbsent)
		return st, fmt.Errorf("%w: %w", ErrRoleWriteFailed, err)
	}
	st := c.applyResolution(gen, &identity, domainauth.DefaultRole)
	return st, nil
}

// SignInWithFederatedProvider runs the provider's interactive federated
// flow. A first-time identity gets a default-role record exactly as in
// SignUp.
func (c *Controller) SignInWithFederatedProvider(ctx context.Context) (State, error) {
	identity, err := c.provider.SignInWithProvider(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrFederatedUnsupported) {
			return State{}, err
		}
		c.logger.WarnContext(ctx, "federated sign-in rejected", "error", err)
		return State{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	gen := c.beginIdentityChange()
	role, err := c.roles.GetRole(ctx, identity.ID)
	switch {
	case errors.Is(err, ports.ErrRoleNotFound):
		profile := ports.UserProfile{
			UserID: identity.ID,
			Email:  identity.Email,
			Name:   identity.Name,
			Role:   domainauth.DefaultRole,
		}
		if writeErr := c.roles.EnsureProfile(ctx, profile); writeErr != nil {
			c.logger.ErrorContext(ctx, "default role write failed on first federated login",
				"user_id", identity.ID, "error", writeErr)
			st := c.applyResolution(gen, &identity, domainauth.RoleAbsent)
			return st, fmt.Errorf("%w: %w", ErrRoleWriteFailed, writeErr)
		}
		role = domainauth.DefaultRole
	case err != nil:
		// Lookup failure is not proof the record is missing, so no
		// default record is created.
		c.logger.ErrorContext(ctx, "role lookup failed", "user_id", identity.ID, "error", err)
		role = domainauth.RoleAbsent
	}
	st := c.applyResolution(gen, &identity, role)
	return st, nil
}

// SetRole writes a new role for the signed-in identity (merge semantics)
// and updates the session role immediately on success, without a re-fetch.
func (c *Controller) SetRole(ctx context.Context, role domainauth.Role) error {
	c.mu.Lock()
	if c.state.Identity == nil {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	userID := c.state.Identity.ID
	gen := c.gen
	c.mu.Unlock()

	if err := c.roles.SetRole(ctx, userID, role); err != nil {
		c.logger.ErrorContext(ctx, "role write failed", "user_id", userID, "error", err)
		return fmt.Errorf("%w: %w", ErrRoleWriteFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Apply only if the identity has not changed since the write began.
	if c.gen == gen && c.state.Identity != nil {
		c.state.Role = role
		c.broadcastLocked()
	}
	return nil
}

// SignOut clears the local session eagerly and then asks the provider to
// end its session. The provider's follow-up signed-out notification is a
// no-op against the already-cleared state. Safe to call when signed out.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	c.state = State{Loading: false}
	c.broadcastLocked()
	c.mu.Unlock()

	if err := c.provider.SignOut(ctx); err != nil {
		c.logger.ErrorContext(ctx, "provider sign-out failed", "error", err)
		return fmt.Errorf("provider sign-out: %w", err)
	}
	return nil
}

// ResetPassword triggers the provider's password-reset email. It has no
// effect on session state.
func (c *Controller) ResetPassword(ctx context.Context, email string) error {
	if err := c.provider.SendPasswordResetEmail(ctx, email); err != nil {
		c.logger.WarnContext(ctx, "password reset email failed", "email", email, "error", err)
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

// applyAuthEvent handles one identity-change notification. Notifications
// are processed serially by the Start loop; the generation check still
// guards against an operation (SignIn, SignOut) landing while this event's
// role resolution is in flight.
func (c *Controller) applyAuthEvent(ctx context.Context, ev ports.AuthEvent) {
	if ev.Identity == nil {
		c.mu.Lock()
		c.gen++
		c.state = State{Loading: false}
		c.broadcastLocked()
		c.mu.Unlock()
		return
	}
	identity := *ev.Identity
	gen := c.beginIdentityChange()
	role := c.resolveRole(ctx, identity.ID)
	c.applyResolution(gen, &identity, role)
}

// beginIdentityChange bumps the generation and returns it; the matching
// applyResolution call is ignored if another change happened in between.
func (c *Controller) beginIdentityChange() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// resolveRole fetches the role fresh from the store. Roles are never cached
// across identity changes. A lookup failure is logged and falls back to an
// absent role so resolution always completes.
func (c *Controller) resolveRole(ctx context.Context, userID string) domainauth.Role {
	role, err := c.roles.GetRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, ports.ErrRoleNotFound) {
			c.logger.ErrorContext(ctx, "role lookup failed",
				"user_id", userID, "error", fmt.Errorf("%w: %w", ErrRoleLookupFailed, err))
		}
		return domainauth.RoleAbsent
	}
	return role
}

// applyResolution publishes identity+role together, clearing Loading. A
// resolution from a superseded generation is discarded and the current
// state returned unchanged.
func (c *Controller) applyResolution(gen uint64, identity *domainauth.Identity, role domainauth.Role) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.state
	}
	c.state = State{Identity: identity, Role: role, Loading: false}
	c.broadcastLocked()
	return c.state
}

func (c *Controller) broadcastLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- c.state:
		default:
			// Slow subscriber: drop the oldest buffered state so the
			// latest is always deliverable.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c.state:
			default:
			}
		}
	}
}
