package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shuleapp/shule/core/user"
)

func Test_userApi_adminOnly(t *testing.T) {
	resetServer()
	emma := createUser(t, "Emma Wilson", "emma@school.org", user.RoleStudent, "Grade 5A", "1234")
	admin := createUser(t, "Dr. Anderson", "admin@school.org", user.RoleAdmin, "", "1234")

	emmaToken := openSession(t, emma)
	adminToken := openSession(t, admin)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoAuth)},
		{name: "admin required", token: emmaToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "admin lists", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	resetServer()
	admin := createUser(t, "Dr. Anderson", "admin@school.org", user.RoleAdmin, "", "1234")
	adminToken := openSession(t, admin)

	body := func(nu user.NewUser) []byte { return marchallObj(t, nu) }

	tests := []httpTest{
		{
			name: "creates a student", wantCode: http.StatusCreated,
			body: body(user.NewUser{Name: "Emma Wilson", Role: user.RoleStudent, PIN: "1234", ClassName: "Grade 5A"}),
		},
		{
			name: "role required", wantCode: http.StatusBadRequest,
			body: body(user.NewUser{Name: "X", PIN: "1234"}),
		},
		{
			name: "PIN must be 4 digits", wantCode: http.StatusBadRequest,
			body: body(user.NewUser{Name: "X", Role: user.RoleStudent, PIN: "12345"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users", adminToken, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		nu := user.NewUser{Name: "Mr. Johnson", Email: "johnson@school.org", Role: user.RoleTeacher, PIN: "1234"}
		req, rec := newAuthRequest(http.MethodPost, "/v1/users", adminToken, body(nu))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("first create: code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/users", adminToken, body(nu))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("duplicate: code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})
}

func Test_userApi_updateAndDelete(t *testing.T) {
	resetServer()
	emma := createUser(t, "Emma Wilson", "emma@school.org", user.RoleStudent, "Grade 5A", "1234")
	admin := createUser(t, "Dr. Anderson", "admin@school.org", user.RoleAdmin, "", "1234")
	adminToken := openSession(t, admin)

	t.Run("deactivation revokes sessions", func(t *testing.T) {
		emmaToken := openSession(t, emma)

		inactive := false
		body := marchallObj(t, user.UpdateUser{Name: emma.Name, IsActive: &inactive})
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/users/%d", emma.ID), adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("update: code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/auth/me", emmaToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("revoked session still valid: code = %v", rec.Code)
		}
	})

	t.Run("self delete forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/users/%d", admin.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "cannot delete own account"}),
		}, rec)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/users/%d", emma.ID), adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete: code = %v", rec.Code)
		}

		req, rec = newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/users/%d", emma.ID), adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("delete missing: code = %v; want %v", rec.Code, http.StatusNotFound)
		}
	})
}
