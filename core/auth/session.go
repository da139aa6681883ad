package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNoSession      = errors.New("session not found")
	ErrSessionExpired = errors.New("session has expired")
)

// Session is the server-side record backing the opaque credential handed to
// a client. Only the token's hash is ever stored.
type Session struct {
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store persists sessions keyed by the token hash.
type Store interface {
	SaveSession(ctx context.Context, key string, s Session) error
	GetSession(ctx context.Context, key string) (Session, error)
	DeleteSession(ctx context.Context, key string) error
	DeleteUserSessions(ctx context.Context, userID int) error
}

// Manager issues, verifies and revokes opaque session tokens.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Create opens a new session for userID and returns the raw token to be set
// as the client's credential. The raw token is never stored.
func (m *Manager) Create(ctx context.Context, userID int) (Session, string, error) {
	token, err := newToken()
	if err != nil {
		return Session{}, "", pkgerrors.Wrap(err, "generating session token")
	}

	now := time.Now().UTC()
	session := Session{
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.SaveSession(ctx, hashToken(token), session); err != nil {
		return Session{}, "", pkgerrors.Wrap(err, "saving session")
	}
	return session, token, nil
}

// Verify resolves a raw token to its session. Expired sessions are deleted
// on sight.
func (m *Manager) Verify(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	key := hashToken(token)

	session, err := m.store.GetSession(ctx, key)
	if err != nil {
		return Session{}, err
	}
	if session.Expired(time.Now().UTC()) {
		_ = m.store.DeleteSession(ctx, key)
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, hashToken(token))
}

// DestroyAll revokes every session belonging to userID (PIN change, account
// deactivation).
func (m *Manager) DestroyAll(ctx context.Context, userID int) error {
	return m.store.DeleteUserSessions(ctx, userID)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
