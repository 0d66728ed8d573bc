// Package storage abre el backend de documentos, sesiones y bloqueo según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
	"github.com/jhoicas/inventario-console/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-console/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-console/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-console/pkg/config"
	"github.com/jhoicas/inventario-console/pkg/logger"
)

// Backend puertos de persistencia listos para usar. Locker es nil salvo con Redis.
type Backend struct {
	Store    repository.KVStore
	Sessions repository.SessionStore
	Locker   repository.Locker
	closers  []func()
}

// Close libera conexiones en orden inverso de apertura.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open construye el backend configurado.
//   - memory: documentos y sesiones en proceso (se pierden al reiniciar).
//   - postgres: documentos en kv_documents; sesiones en memoria.
//   - redis: documentos, sesiones con TTL y bloqueo distribuido redsync.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		log.Warn().Msg("almacenamiento en memoria: los datos no sobreviven al reinicio")
		return &Backend{Store: memory.NewKVStore(), Sessions: memory.NewSessionStore()}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		store := postgres.NewKVStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{Store: store, Sessions: memory.NewSessionStore(), closers: []func(){pool.Close}}, nil

	case config.DriverRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store:    infraredis.NewKVStore(client, cfg.Redis.Prefix),
			Sessions: infraredis.NewSessionStore(client, cfg.Redis.Prefix),
			Locker:   infraredis.NewLocker(client, cfg.Redis.Prefix, infraredis.DefaultLockConfig()),
			closers:  []func(){func() { _ = client.Close() }},
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
}
