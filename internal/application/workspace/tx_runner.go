package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
	"github.com/jhoicas/inventario-console/pkg/logger"
	"github.com/jhoicas/inventario-console/pkg/metrics"
)

// TxRunner ejecuta operaciones como unidades de trabajo: copia del workspace, operación,
// escritura por lotes de los documentos modificados y sustitución del estado en memoria.
// Si la operación o la escritura fallan, ni el estado ni el almacén cambian.
type TxRunner struct {
	store   repository.KVStore
	locker  repository.Locker
	opts    Options
	log     *logger.Logger
	metrics *metrics.ConsoleMetrics

	mu       sync.RWMutex
	snapshot Documents
	current  *Workspace
}

// NewTxRunner construye el runner. Llamar a Load antes de usarlo.
func NewTxRunner(store repository.KVStore, opts Options, log *logger.Logger, m *metrics.ConsoleMetrics) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{store: store, opts: opts.withDefaults(), log: log, metrics: m}
}

// UseLocker activa el modo compartido: cada unidad de trabajo toma el bloqueo distribuido y
// recarga el estado desde el almacén, y cada lectura recarga antes de consultar.
func (r *TxRunner) UseLocker(l repository.Locker) { r.locker = l }

// Options opciones con las que se decodifican las copias.
func (r *TxRunner) Options() Options { return r.opts }

// Empty indica si el almacén no contiene ningún documento.
func (r *TxRunner) Empty(ctx context.Context) (bool, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return false, fmt.Errorf("listar documentos: %w", err)
	}
	return len(keys) == 0, nil
}

// Initialize escribe los documentos iniciales (todos) y los adopta como estado actual.
func (r *TxRunner) Initialize(ctx context.Context, docs Documents) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, err := Decode(docs, r.opts)
	if err != nil {
		return err
	}
	if err := ws.Validate(); err != nil {
		return err
	}
	canonical, err := ws.Encode()
	if err != nil {
		return err
	}
	err = r.store.PutBatch(ctx, canonical)
	r.metrics.StoreWrite(err)
	if err != nil {
		return fmt.Errorf("escribir documentos iniciales: %w", err)
	}
	r.snapshot, r.current = canonical, ws
	return nil
}

// Load lee y valida el estado persistido.
func (r *TxRunner) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reload(ctx, true)
}

func (r *TxRunner) reload(ctx context.Context, validate bool) error {
	docs := make(Documents, len(repository.Documents))
	for _, key := range repository.Documents {
		raw, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("leer %s: %w", key, err)
		}
		if ok {
			docs[key] = raw
		}
	}
	ws, err := Decode(docs, r.opts)
	if err != nil {
		return err
	}
	if validate {
		if err := ws.Validate(); err != nil {
			return err
		}
	}
	canonical, err := ws.Encode()
	if err != nil {
		return err
	}
	r.snapshot, r.current = canonical, ws
	return nil
}

// Run ejecuta fn sobre una copia del workspace y persiste el resultado si fn no falla.
func (r *TxRunner) Run(ctx context.Context, fn func(ws *Workspace) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx)
		if err != nil {
			return fmt.Errorf("adquirir bloqueo: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.log.Warn().Err(err).Msg("liberar bloqueo del workspace")
			}
		}()
		if err := r.reload(ctx, false); err != nil {
			return err
		}
	}
	if r.current == nil {
		return fmt.Errorf("workspace no cargado")
	}

	ws, err := Decode(r.snapshot, r.opts)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	docs, err := ws.Encode()
	if err != nil {
		return err
	}
	changed := docs.Changed(r.snapshot)
	if len(changed) > 0 {
		err := r.store.PutBatch(ctx, changed)
		r.metrics.StoreWrite(err)
		if err != nil {
			r.log.Error().Err(err).Int("documents", len(changed)).Msg("persistir unidad de trabajo")
			return fmt.Errorf("persistir cambios: %w", err)
		}
	}
	r.snapshot, r.current = docs, ws
	return nil
}

// View ejecuta fn sobre el estado actual en modo lectura. fn no debe modificar el workspace.
func (r *TxRunner) View(ctx context.Context, fn func(ws *Workspace) error) error {
	if r.locker != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.reload(ctx, false); err != nil {
			return err
		}
	} else {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	if r.current == nil {
		return fmt.Errorf("workspace no cargado")
	}
	return fn(r.current)
}

// Snapshot copia de los documentos del estado actual.
func (r *TxRunner) Snapshot(ctx context.Context) (Documents, error) {
	var out Documents
	err := r.View(ctx, func(*Workspace) error {
		out = r.snapshot.Clone()
		return nil
	})
	return out, err
}
