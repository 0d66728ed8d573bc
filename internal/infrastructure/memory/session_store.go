package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

type session struct {
	userID    string
	expiresAt time.Time
}

// SessionStore sesiones en memoria con expiración perezosa.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

// NewSessionStore construye el almacén de sesiones.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]session{}, now: time.Now}
}

// Save registra la sesión; ttl <= 0 = sin expiración.
func (s *SessionStore) Save(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.sessions[sessionID] = session{userID: userID, expiresAt: exp}
	return nil
}

// Get devuelve el usuario de la sesión o "" si no existe o expiró.
func (s *SessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", nil
	}
	if !sess.expiresAt.IsZero() && !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return "", nil
	}
	return sess.userID, nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
