package sessionstore

import (
	"context"
	"sync"

	"github.com/shuleapp/shule/core/auth"
)

// InMemStore keeps sessions in a map; for development and tests.
type InMemStore struct {
	mutex sync.RWMutex
	table map[string]auth.Session
}

var _ auth.Store = (*InMemStore)(nil)

func NewInMemStore() *InMemStore {
	return &InMemStore{table: make(map[string]auth.Session)}
}

func (s *InMemStore) SaveSession(_ context.Context, key string, session auth.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = session
	return nil
}

func (s *InMemStore) GetSession(_ context.Context, key string) (auth.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if session, ok := s.table[key]; ok {
		return session, nil
	}
	return auth.Session{}, auth.ErrNoSession
}

func (s *InMemStore) DeleteSession(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}

func (s *InMemStore) DeleteUserSessions(_ context.Context, userID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for key, session := range s.table {
		if session.UserID == userID {
			delete(s.table, key)
		}
	}
	return nil
}
