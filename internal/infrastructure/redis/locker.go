package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.Locker = (*Locker)(nil)

// ErrLockLost el bloqueo expiró antes de liberarse.
var ErrLockLost = errors.New("bloqueo perdido antes de liberarse")

// LockConfig parámetros del mutex distribuido.
type LockConfig struct {
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

// DefaultLockConfig valores por defecto: 8s de vida, 64 intentos cada 100ms.
func DefaultLockConfig() LockConfig {
	return LockConfig{Expiry: 8 * time.Second, Tries: 64, RetryDelay: 100 * time.Millisecond}
}

// Locker mutex redsync que serializa las unidades de trabajo de varios procesos.
type Locker struct {
	rs   *redsync.Redsync
	name string
	cfg  LockConfig
}

// NewLocker construye el bloqueo <prefix>lock:workspace.
func NewLocker(client *redis.Client, prefix string, cfg LockConfig) *Locker {
	pool := goredis.NewPool(client)
	return &Locker{rs: redsync.New(pool), name: prefix + "lock:workspace", cfg: cfg}
}

// Lock adquiere el bloqueo y devuelve la función que lo libera.
func (l *Locker) Lock(ctx context.Context) (func(context.Context) error, error) {
	m := l.rs.NewMutex(l.name,
		redsync.WithExpiry(l.cfg.Expiry),
		redsync.WithTries(l.cfg.Tries),
		redsync.WithRetryDelay(l.cfg.RetryDelay),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("bloqueo %s: %w", l.name, err)
	}
	return func(ctx context.Context) error {
		ok, err := m.UnlockContext(ctx)
		if err != nil {
			return fmt.Errorf("liberar %s: %w", l.name, err)
		}
		if !ok {
			return ErrLockLost
		}
		return nil
	}, nil
}
