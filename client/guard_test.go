package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleapp/shule/core/user"
)

func Test_Evaluate(t *testing.T) {
	student := Snapshot{State: StateAuthenticated, Identity: Identity{ID: 1, Role: user.RoleStudent}}
	teacher := Snapshot{State: StateAuthenticated, Identity: Identity{ID: 2, Role: user.RoleTeacher}}
	admin := Snapshot{State: StateAuthenticated, Identity: Identity{ID: 3, Role: user.RoleAdmin}}

	tests := []struct {
		name      string
		snap      Snapshot
		permitted []user.Role
		want      Decision
	}{
		{
			name: "unknown shows placeholder, no redirect",
			snap: Snapshot{State: StateUnknown},
			want: Decision{Action: GuardLoading},
		},
		{
			name: "authenticating shows placeholder",
			snap: Snapshot{State: StateAuthenticating},
			want: Decision{Action: GuardLoading},
		},
		{
			name:      "unauthenticated redirects to login replacing history",
			snap:      Snapshot{State: StateUnauthenticated},
			permitted: []user.Role{user.RoleTeacher},
			want:      Decision{Action: GuardRedirect, Target: LoginPath, ReplaceHistory: true},
		},
		{
			name:      "wrong role redirects to own dashboard",
			snap:      student,
			permitted: []user.Role{user.RoleTeacher},
			want:      Decision{Action: GuardRedirect, Target: "/student"},
		},
		{
			name:      "admin on teacher page goes home",
			snap:      admin,
			permitted: []user.Role{user.RoleTeacher},
			want:      Decision{Action: GuardRedirect, Target: "/admin"},
		},
		{
			name:      "permitted role renders",
			snap:      teacher,
			permitted: []user.Role{user.RoleTeacher},
			want:      Decision{Action: GuardRender},
		},
		{
			name:      "any of several permitted roles renders",
			snap:      student,
			permitted: []user.Role{user.RoleTeacher, user.RoleStudent},
			want:      Decision{Action: GuardRender},
		},
		{
			name: "empty permitted set admits any authenticated user",
			snap: student,
			want: Decision{Action: GuardRender},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.snap, tt.permitted...))
		})
	}
}

// A logout while a protected page is open must immediately flip the guard's
// verdict from render to redirect.
func Test_Evaluate_reactsToLogout(t *testing.T) {
	ctx := context.Background()
	ctrl := NewSessionController(&fakeTransport{
		loginFn: func(context.Context, int, string) (Identity, error) { return testIdentity, nil },
	})
	require.NoError(t, ctrl.Login(ctx, 42, "1234"))

	var last Decision
	ctrl.Subscribe(func(snap Snapshot) {
		last = Evaluate(snap, user.RoleStudent)
	})
	require.Equal(t, Decision{Action: GuardRender}, Evaluate(ctrl.Snapshot(), user.RoleStudent))

	ctrl.Logout(ctx)

	assert.Equal(t, Decision{Action: GuardRedirect, Target: LoginPath, ReplaceHistory: true}, last)
	assert.Equal(t, last, Evaluate(ctrl.Snapshot(), user.RoleStudent))
}

func Test_DashboardPath(t *testing.T) {
	assert.Equal(t, "/student", DashboardPath(user.RoleStudent))
	assert.Equal(t, "/teacher", DashboardPath(user.RoleTeacher))
	assert.Equal(t, "/admin", DashboardPath(user.RoleAdmin))
}
