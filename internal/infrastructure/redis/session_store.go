package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore sesiones con expiración nativa de Redis.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore construye el almacén de sesiones.
func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string { return s.prefix + "session:" + id }

// Save registra la sesión; ttl <= 0 = sin expiración.
func (s *SessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// Get devuelve el usuario de la sesión o "" si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("leer sesión: %w", err)
	}
	return userID, nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
