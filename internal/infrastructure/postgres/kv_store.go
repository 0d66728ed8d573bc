package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// La columna es json (no jsonb) para conservar los bytes tal como se escribieron:
// la unidad de trabajo compara documentos byte a byte.
const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_documents (
	key        TEXT PRIMARY KEY,
	value      JSON NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// KVStore implementa repository.KVStore sobre la tabla kv_documents.
type KVStore struct {
	pool *pgxpool.Pool
}

// NewKVStore construye el almacén con el pool.
func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

// EnsureSchema crea la tabla si no existe.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("crear kv_documents: %w", err)
	}
	return nil
}

// Get devuelve el documento y si existe.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT value::text FROM kv_documents WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer documento %s: %w", key, err)
	}
	return []byte(raw), true, nil
}

// PutBatch escribe todas las claves en una única transacción.
func (s *KVStore) PutBatch(ctx context.Context, docs map[string][]byte) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	// orden fijo para evitar interbloqueos entre escritores concurrentes
	sort.Strings(keys)

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(`
			INSERT INTO kv_documents (key, value, updated_at) VALUES ($1, $2::json, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			k, string(docs[k]))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isInvalidJSON(err) {
			return fmt.Errorf("%w: documento con JSON inválido: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("escribir documentos: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Keys claves presentes en orden alfabético.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key FROM kv_documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
