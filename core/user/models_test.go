package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
	emailsvc "github.com/shuleapp/shule/services/email"
	inmemdb "github.com/shuleapp/shule/storage/database/inmem"
)

func newSvc() *user.Service {
	return user.NewService(inmemdb.NewUserRepository(inmemdb.NewDB()), emailsvc.NewConsoleServiceMock())
}

func Test_Role(t *testing.T) {
	for _, role := range user.AllRoles {
		assert.True(t, role.Valid())
	}
	assert.False(t, user.Role("principal").Valid())
	assert.False(t, user.Role("").Valid())
}

func Test_User_PIN(t *testing.T) {
	var usr user.User
	require.NoError(t, usr.SetPIN("1234"))

	assert.NoError(t, usr.CheckPIN("1234"))
	assert.Error(t, usr.CheckPIN("4321"))
	assert.Error(t, usr.CheckPIN(""))
}

func Test_NewUser_Validate(t *testing.T) {
	svc := newSvc()

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr bool
	}{
		{name: "valid student", nu: user.NewUser{Name: "Emma Wilson", Role: user.RoleStudent, PIN: "1234", ClassName: "5A"}},
		{name: "valid teacher", nu: user.NewUser{Name: "Mr. Johnson", Email: "johnson@school.org", Role: user.RoleTeacher, PIN: "1234"}},
		{name: "missing name", nu: user.NewUser{Role: user.RoleStudent, PIN: "1234"}, wantErr: true},
		{name: "unknown role", nu: user.NewUser{Name: "X", Role: "principal", PIN: "1234"}, wantErr: true},
		{name: "PIN too short", nu: user.NewUser{Name: "X", Role: user.RoleStudent, PIN: "123"}, wantErr: true},
		{name: "PIN too long", nu: user.NewUser{Name: "X", Role: user.RoleStudent, PIN: "12345"}, wantErr: true},
		{name: "PIN not digits", nu: user.NewUser{Name: "X", Role: user.RoleStudent, PIN: "12a4"}, wantErr: true},
		{name: "bad email", nu: user.NewUser{Name: "X", Email: "nope", Role: user.RoleTeacher, PIN: "1234"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		nu := user.NewUser{Name: "Mr. Johnson", Email: "johnson@school.org", Role: user.RoleTeacher, PIN: "1234"}
		require.NoError(t, nu.Validate(svc))
		_, err := svc.Create(nu)
		require.NoError(t, err)

		dup := user.NewUser{Name: "Impostor", Email: "johnson@school.org", Role: user.RoleTeacher, PIN: "1234"}
		err = dup.Validate(svc)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func Test_Service_Create(t *testing.T) {
	svc := newSvc()

	t.Run("hashes PIN and activates", func(t *testing.T) {
		usr, err := svc.Create(user.NewUser{Name: "Emma Wilson", Role: user.RoleStudent, PIN: "1234", ClassName: "5A"})
		require.NoError(t, err)

		assert.True(t, usr.IsActive)
		assert.NotEmpty(t, usr.PINHash)
		assert.NoError(t, usr.CheckPIN("1234"))
		assert.Equal(t, "5A", usr.ClassName)
	})

	t.Run("drops class for non-students", func(t *testing.T) {
		usr, err := svc.Create(user.NewUser{Name: "Mr. Johnson", Role: user.RoleTeacher, PIN: "1234", ClassName: "5A"})
		require.NoError(t, err)
		assert.Empty(t, usr.ClassName)
	})

	t.Run("sends welcome email when an address is set", func(t *testing.T) {
		emailsvc.SentMessages = nil
		_, err := svc.Create(user.NewUser{Name: "Ms. Garcia", Email: "garcia@school.org", Role: user.RoleTeacher, PIN: "1234"})
		require.NoError(t, err)
		require.Len(t, emailsvc.SentMessages, 1)
		assert.Contains(t, emailsvc.SentMessages[0].Subject, "Welcome")
	})
}

func Test_Service_Candidates(t *testing.T) {
	svc := newSvc()

	emma, err := svc.Create(user.NewUser{Name: "Emma Wilson", Role: user.RoleStudent, PIN: "1234", ClassName: "5A"})
	require.NoError(t, err)
	_, err = svc.Create(user.NewUser{Name: "Sofia Martinez", Role: user.RoleStudent, PIN: "1234", ClassName: "5B"})
	require.NoError(t, err)
	johnson, err := svc.Create(user.NewUser{Name: "Mr. Johnson", Role: user.RoleTeacher, PIN: "1234"})
	require.NoError(t, err)
	inactive, err := svc.Create(user.NewUser{Name: "Ghost", Role: user.RoleTeacher, PIN: "1234"})
	require.NoError(t, err)
	deactivated := false
	_, err = svc.Update(inactive.ID, user.UpdateUser{Name: inactive.Name, IsActive: &deactivated})
	require.NoError(t, err)

	t.Run("students scoped by class, labelled with it", func(t *testing.T) {
		candidates, err := svc.Candidates(user.RoleStudent, "5A")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, emma.ID, candidates[0].ID)
		assert.Equal(t, "5A", candidates[0].Label)
	})

	t.Run("teachers labelled with role, inactive skipped", func(t *testing.T) {
		candidates, err := svc.Candidates(user.RoleTeacher, "")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, johnson.ID, candidates[0].ID)
		assert.Equal(t, "teacher", candidates[0].Label)
	})
}

func Test_Service_UpdateOwnProfile(t *testing.T) {
	svc := newSvc()
	usr, err := svc.Create(user.NewUser{Name: "Emma Wilson", Role: user.RoleStudent, PIN: "1234", ClassName: "5A"})
	require.NoError(t, err)

	t.Run("wrong current PIN rejected", func(t *testing.T) {
		_, err := svc.UpdateOwnProfile(usr, user.UpdateProfile{CurrentPIN: "0000", PIN: "5678"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("changes PIN", func(t *testing.T) {
		updated, err := svc.UpdateOwnProfile(usr, user.UpdateProfile{CurrentPIN: "1234", PIN: "5678"})
		require.NoError(t, err)
		assert.NoError(t, updated.CheckPIN("5678"))
		assert.Error(t, updated.CheckPIN("1234"))
	})
}
