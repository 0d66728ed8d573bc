package repository

import (
	"context"
	"time"
)

// SessionStore almacén efímero de sesiones activas (sobrevive recargas, no es durable).
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Get devuelve el userID de la sesión; "" si no existe o expiró.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
