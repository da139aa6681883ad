package client

import "github.com/pkg/errors"

// Failure taxonomy. The transport normalizes every collaborator failure to
// one of these before it reaches the session controller or the wizard.
var (
	// ErrInvalidCredential means the PIN was rejected for the given
	// candidate. Recoverable, the user retries.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrServerUnavailable covers network errors, timeouts and 5xx
	// responses. Recoverable, the user retries or waits.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrNotAuthenticated is the expected steady state for a fresh
	// visitor, not a user-visible error.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginInFlight rejects a login attempt issued while a previous
	// one is still pending.
	ErrLoginInFlight = errors.New("a login attempt is already in flight")
)
