package client

import (
	"context"

	"github.com/shuleapp/shule/core/user"
)

type (
	// Identity is the server-verified user record. The role is fixed at
	// account creation; the client never mutates it locally.
	Identity struct {
		ID        int       `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email,omitempty"`
		Role      user.Role `json:"role"`
		ClassName string    `json:"className,omitempty"`
	}

	// ClassOption is an entry in the login screen's class picker.
	ClassOption struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	// Candidate is a selectable user entry shown during the wizard's
	// user-select step, not yet authenticated.
	Candidate struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label,omitempty"`
	}

	// Transport is the REST collaborator contract the session controller
	// and login wizard depend on. The session credential is an opaque
	// concern of the implementation (a cookie for HTTPTransport); callers
	// never see or store it.
	Transport interface {
		// CurrentIdentity resolves the implicit credential to an
		// Identity. Any failure is reported as ErrNotAuthenticated.
		CurrentIdentity(ctx context.Context) (Identity, error)

		// Login verifies userID's PIN and establishes the session
		// credential. 4xx responses map to ErrInvalidCredential,
		// network errors and 5xx to ErrServerUnavailable.
		Login(ctx context.Context, userID int, pin string) (Identity, error)

		// Logout terminates the server-side session. Callers ignore
		// the outcome; local logout proceeds regardless.
		Logout(ctx context.Context) error

		// PublicClasses lists the classes offered on the login
		// screen. Failures surface as an empty list, never an error.
		PublicClasses(ctx context.Context) []ClassOption

		// PublicCandidates lists selectable users for role, scoped by
		// className when role is student. Failures surface as an
		// empty list.
		PublicCandidates(ctx context.Context, role user.Role, className string) []Candidate
	}
)

// DashboardPath returns the role's home route.
func DashboardPath(role user.Role) string {
	switch role {
	case user.RoleTeacher:
		return "/teacher"
	case user.RoleAdmin:
		return "/admin"
	default:
		return "/student"
	}
}

// LoginPath is the unauthenticated entry point.
const LoginPath = "/login"
