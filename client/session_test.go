package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleapp/shule/core/user"
)

// fakeTransport lets each test script the collaborator's behavior through
// function fields; unset fields fall back to "no session" defaults.
type fakeTransport struct {
	currentFn    func(ctx context.Context) (Identity, error)
	loginFn      func(ctx context.Context, userID int, pin string) (Identity, error)
	logoutFn     func(ctx context.Context) error
	classesFn    func(ctx context.Context) []ClassOption
	candidatesFn func(ctx context.Context, role user.Role, className string) []Candidate
}

var _ Transport = (*fakeTransport)(nil)

func (f *fakeTransport) CurrentIdentity(ctx context.Context) (Identity, error) {
	if f.currentFn != nil {
		return f.currentFn(ctx)
	}
	return Identity{}, ErrNotAuthenticated
}

func (f *fakeTransport) Login(ctx context.Context, userID int, pin string) (Identity, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, userID, pin)
	}
	return Identity{}, ErrInvalidCredential
}

func (f *fakeTransport) Logout(ctx context.Context) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx)
	}
	return nil
}

func (f *fakeTransport) PublicClasses(ctx context.Context) []ClassOption {
	if f.classesFn != nil {
		return f.classesFn(ctx)
	}
	return []ClassOption{}
}

func (f *fakeTransport) PublicCandidates(ctx context.Context, role user.Role, className string) []Candidate {
	if f.candidatesFn != nil {
		return f.candidatesFn(ctx, role, className)
	}
	return []Candidate{}
}

var testIdentity = Identity{ID: 42, Name: "Alex Kumar", Role: user.RoleStudent, ClassName: "5A"}

func Test_SessionController_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("existing session", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
		})
		require.Equal(t, StateUnknown, ctrl.Snapshot().State)

		ctrl.Bootstrap(ctx)

		snap := ctrl.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		assert.Equal(t, testIdentity, snap.Identity)
		assert.True(t, snap.IsAuthenticated())
		assert.False(t, snap.IsLoading())
	})

	t.Run("fresh visitor", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{})

		ctrl.Bootstrap(ctx)

		snap := ctrl.Snapshot()
		assert.Equal(t, StateUnauthenticated, snap.State)
		assert.False(t, snap.IsAuthenticated())
		assert.False(t, snap.IsLoading())
	})

	t.Run("transitions through authenticating", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
		})
		var states []State
		ctrl.Subscribe(func(snap Snapshot) { states = append(states, snap.State) })

		ctrl.Bootstrap(ctx)

		assert.Equal(t, []State{StateAuthenticating, StateAuthenticated}, states)
	})
}

func Test_SessionController_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			loginFn: func(_ context.Context, userID int, pin string) (Identity, error) {
				require.Equal(t, 42, userID)
				require.Equal(t, "1234", pin)
				return testIdentity, nil
			},
		})

		err := ctrl.Login(ctx, 42, "1234")

		require.NoError(t, err)
		snap := ctrl.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		assert.Equal(t, testIdentity, snap.Identity)
	})

	t.Run("invalid credential", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{})

		err := ctrl.Login(ctx, 42, "0000")

		assert.Equal(t, ErrInvalidCredential, err)
		assert.Equal(t, StateUnauthenticated, ctrl.Snapshot().State)
	})

	t.Run("server unavailable", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			loginFn: func(context.Context, int, string) (Identity, error) {
				return Identity{}, ErrServerUnavailable
			},
		})

		err := ctrl.Login(ctx, 42, "1234")

		assert.Equal(t, ErrServerUnavailable, err)
		assert.Equal(t, StateUnauthenticated, ctrl.Snapshot().State)
	})

	t.Run("concurrent login rejected", func(t *testing.T) {
		inFlight := make(chan struct{})
		release := make(chan struct{})
		ctrl := NewSessionController(&fakeTransport{
			loginFn: func(context.Context, int, string) (Identity, error) {
				close(inFlight)
				<-release
				return testIdentity, nil
			},
		})

		done := make(chan error, 1)
		go func() { done <- ctrl.Login(ctx, 42, "1234") }()
		<-inFlight

		assert.Equal(t, ErrLoginInFlight, ctrl.Login(ctx, 42, "1234"))

		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateAuthenticated, ctrl.Snapshot().State)
	})
}

func Test_SessionController_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears session", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
		})
		ctrl.Bootstrap(ctx)
		require.True(t, ctrl.Snapshot().IsAuthenticated())

		ctrl.Logout(ctx)

		snap := ctrl.Snapshot()
		assert.Equal(t, StateUnauthenticated, snap.State)
		assert.Equal(t, Identity{}, snap.Identity)
	})

	t.Run("unconditional on server failure", func(t *testing.T) {
		ctrl := NewSessionController(&fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
			logoutFn:  func(context.Context) error { return ErrServerUnavailable },
		})
		ctrl.Bootstrap(ctx)

		ctrl.Logout(ctx)

		assert.Equal(t, StateUnauthenticated, ctrl.Snapshot().State)
	})
}

func Test_SessionController_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("updates identity without loading phase", func(t *testing.T) {
		updated := testIdentity
		updated.Name = "Alex K. Kumar"
		transport := &fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
		}
		ctrl := NewSessionController(transport)
		ctrl.Bootstrap(ctx)

		var sawLoading bool
		ctrl.Subscribe(func(snap Snapshot) {
			if snap.IsLoading() {
				sawLoading = true
			}
		})
		transport.currentFn = func(context.Context) (Identity, error) { return updated, nil }

		require.NoError(t, ctrl.Refresh(ctx))

		snap := ctrl.Snapshot()
		assert.Equal(t, updated, snap.Identity)
		assert.False(t, sawLoading)
	})

	t.Run("failure behaves like logout", func(t *testing.T) {
		transport := &fakeTransport{
			currentFn: func(context.Context) (Identity, error) { return testIdentity, nil },
		}
		ctrl := NewSessionController(transport)
		ctrl.Bootstrap(ctx)
		transport.currentFn = func(context.Context) (Identity, error) { return Identity{}, ErrNotAuthenticated }

		err := ctrl.Refresh(ctx)

		assert.Error(t, err)
		snap := ctrl.Snapshot()
		assert.Equal(t, StateUnauthenticated, snap.State)
		assert.Equal(t, Identity{}, snap.Identity)
	})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 2*time.Millisecond)
}
