package client

import (
	"context"
	"sync"
)

// State is the session lifecycle. Unknown is entered exactly once at start;
// logout loops back to Unauthenticated, never to Unknown.
type State int

const (
	StateUnknown State = iota
	StateAuthenticating
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "invalid"
}

// Snapshot is an immutable read of the session, handed to guards and views.
type Snapshot struct {
	State    State
	Identity Identity
}

func (s Snapshot) IsAuthenticated() bool { return s.State == StateAuthenticated }

// IsLoading reports whether a guard decision would be premature.
func (s Snapshot) IsLoading() bool {
	return s.State == StateUnknown || s.State == StateAuthenticating
}

// SessionController is the single owner of the session. All other components
// read snapshots; only the controller calls the collaborator's
// identity-mutating operations.
type SessionController struct {
	transport Transport

	mu       sync.Mutex
	state    State
	identity Identity
	pending  bool // a bootstrap or login call is in flight
	subs     []func(Snapshot)
}

func NewSessionController(transport Transport) *SessionController {
	return &SessionController{
		transport: transport,
		state:     StateUnknown,
	}
}

// Snapshot returns the current session state.
func (c *SessionController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Identity: c.identity}
}

// Subscribe registers fn to be called after every state transition. Guards
// use this to re-evaluate on logout while a protected view is open. fn runs
// with the controller locked and must not call back into it; the Snapshot it
// receives is all it needs.
func (c *SessionController) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Bootstrap resolves the implicit credential once at application start. A
// failure is the expected state for a fresh visitor, not an error.
func (c *SessionController) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = true
	c.setStateLocked(StateAuthenticating, Identity{})
	c.mu.Unlock()

	identity, err := c.transport.CurrentIdentity(ctx)

	c.mu.Lock()
	c.pending = false
	if err != nil {
		c.setStateLocked(StateUnauthenticated, Identity{})
	} else {
		c.setStateLocked(StateAuthenticated, identity)
	}
	c.mu.Unlock()
}

// Login verifies pin for userID. A call issued while a previous login or
// bootstrap is still pending is rejected with ErrLoginInFlight rather than
// racing two identity writes.
func (c *SessionController) Login(ctx context.Context, userID int, pin string) error {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrLoginInFlight
	}
	c.pending = true
	c.setStateLocked(StateAuthenticating, Identity{})
	c.mu.Unlock()

	identity, err := c.transport.Login(ctx, userID, pin)

	c.mu.Lock()
	c.pending = false
	if err != nil {
		c.setStateLocked(StateUnauthenticated, Identity{})
		c.mu.Unlock()
		return err
	}
	c.setStateLocked(StateAuthenticated, identity)
	c.mu.Unlock()
	return nil
}

// Logout is unconditional locally. A failed server-side call must never
// leave the client believing it is still authenticated, and must not block
// the client from behaving as logged-out immediately.
func (c *SessionController) Logout(ctx context.Context) {
	_ = c.transport.Logout(ctx)

	c.mu.Lock()
	c.setStateLocked(StateUnauthenticated, Identity{})
	c.mu.Unlock()
}

// Refresh re-runs the identity query without entering Authenticating (used
// after profile edits). A failed refresh means the session is no longer
// valid and has the same local effect as Logout.
func (c *SessionController) Refresh(ctx context.Context) error {
	identity, err := c.transport.CurrentIdentity(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setStateLocked(StateUnauthenticated, Identity{})
		return err
	}
	c.setStateLocked(StateAuthenticated, identity)
	return nil
}

// setStateLocked transitions and notifies subscribers; c.mu must be held.
func (c *SessionController) setStateLocked(state State, identity Identity) {
	c.state = state
	c.identity = identity

	snap := Snapshot{State: state, Identity: identity}
	for _, fn := range c.subs {
		fn(snap)
	}
}
