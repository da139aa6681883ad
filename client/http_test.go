package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleapp/shule/core/user"
)

// fakeAPI is a minimal collaborator: login sets an opaque session cookie,
// /auth/me resolves it.
func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID int    `json:"user_id"`
			PIN    string `json:"pin"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.UserID != 42 || body.PIN != "1234" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid PIN"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "shule_session", Value: "tok-abc", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]Identity{"user": testIdentity})
	})

	mux.HandleFunc("/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("shule_session"); err != nil || c.Value != "tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(testIdentity)
	})

	mux.HandleFunc("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "shule_session", Value: "", MaxAge: -1, Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"success": "Logged out successfully"})
	})

	mux.HandleFunc("/v1/classes/public", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testClasses)
	})

	mux.HandleFunc("/v1/users/public", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("role") == "student" {
			assert.Equal(t, "5A", r.URL.Query().Get("class_name"))
			_ = json.NewEncoder(w).Encode(studentCandidates)
			return
		}
		_ = json.NewEncoder(w).Encode(teacherCandidates)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func Test_HTTPTransport_sessionLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newFakeAPI(t)
	transport, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)

	// fresh visitor has no session
	_, err = transport.CurrentIdentity(ctx)
	assert.Equal(t, ErrNotAuthenticated, err)

	// login establishes the cookie credential
	identity, err := transport.Login(ctx, 42, "1234")
	require.NoError(t, err)
	assert.Equal(t, testIdentity, identity)

	// the jar carries the credential; the caller never sees it
	identity, err = transport.CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, identity)

	require.NoError(t, transport.Logout(ctx))
	_, err = transport.CurrentIdentity(ctx)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func Test_HTTPTransport_failureNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("4xx login is an invalid credential", func(t *testing.T) {
		transport, err := NewHTTPTransport(newFakeAPI(t).URL)
		require.NoError(t, err)

		_, err = transport.Login(ctx, 42, "0000")
		assert.Equal(t, ErrInvalidCredential, err)
	})

	t.Run("5xx login is server unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)
		transport, err := NewHTTPTransport(srv.URL)
		require.NoError(t, err)

		_, err = transport.Login(ctx, 42, "1234")
		assert.Equal(t, ErrServerUnavailable, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		transport, err := NewHTTPTransport("http://127.0.0.1:1")
		require.NoError(t, err)

		_, err = transport.Login(ctx, 42, "1234")
		assert.Equal(t, ErrServerUnavailable, err)

		_, err = transport.CurrentIdentity(ctx)
		assert.Equal(t, ErrNotAuthenticated, err)
	})

	t.Run("list fetches fail to empty, not error", func(t *testing.T) {
		transport, err := NewHTTPTransport("http://127.0.0.1:1")
		require.NoError(t, err)

		assert.Equal(t, []ClassOption{}, transport.PublicClasses(ctx))
		assert.Equal(t, []Candidate{}, transport.PublicCandidates(ctx, user.RoleTeacher, ""))
	})
}

func Test_HTTPTransport_publicLists(t *testing.T) {
	ctx := context.Background()
	transport, err := NewHTTPTransport(newFakeAPI(t).URL)
	require.NoError(t, err)

	assert.Equal(t, testClasses, transport.PublicClasses(ctx))
	assert.Equal(t, studentCandidates, transport.PublicCandidates(ctx, user.RoleStudent, "5A"))
	assert.Equal(t, teacherCandidates, transport.PublicCandidates(ctx, user.RoleTeacher, ""))
}
