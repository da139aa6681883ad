package client

import (
	"github.com/shuleapp/shule/core/user"
)

// GuardAction is what a role-gated view should do with the current session.
type GuardAction int

const (
	// GuardRender admits the protected content.
	GuardRender GuardAction = iota
	// GuardLoading shows a neutral placeholder; redirecting during
	// bootstrap would flicker.
	GuardLoading
	// GuardRedirect navigates to Decision.Target.
	GuardRedirect
)

// Decision is a route guard verdict. It carries no side effects; the caller
// performs the navigation.
type Decision struct {
	Action GuardAction
	// Target is the redirect destination when Action is GuardRedirect.
	Target string
	// ReplaceHistory prevents back-navigation into a protected page when
	// redirecting to the login entry point.
	ReplaceHistory bool
}

// Evaluate gates a role-scoped view. An empty permitted set admits any
// authenticated user. A mis-scoped link redirects to the identity's own
// dashboard, never to an error page. Callers must re-evaluate on every
// session transition, not just once on mount.
func Evaluate(snap Snapshot, permitted ...user.Role) Decision {
	if snap.IsLoading() {
		return Decision{Action: GuardLoading}
	}
	if !snap.IsAuthenticated() {
		return Decision{Action: GuardRedirect, Target: LoginPath, ReplaceHistory: true}
	}
	if len(permitted) == 0 {
		return Decision{Action: GuardRender}
	}
	for _, role := range permitted {
		if snap.Identity.Role == role {
			return Decision{Action: GuardRender}
		}
	}
	return Decision{Action: GuardRedirect, Target: DashboardPath(snap.Identity.Role)}
}
