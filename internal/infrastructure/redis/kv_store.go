package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVStore documentos como strings bajo <prefix>doc:<key>; el conjunto <prefix>docs indexa las claves.
type KVStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore construye el almacén. prefix separa instalaciones que comparten servidor.
func NewKVStore(client *redis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) docKey(key string) string { return s.prefix + "doc:" + key }
func (s *KVStore) indexKey() string         { return s.prefix + "docs" }

// Get devuelve el documento y si existe.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.docKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer documento %s: %w", key, err)
	}
	return b, true, nil
}

// PutBatch escribe todas las claves en un bloque MULTI/EXEC.
func (s *KVStore) PutBatch(ctx context.Context, docs map[string][]byte) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range docs {
			pipe.Set(ctx, s.docKey(k), v, 0)
			pipe.SAdd(ctx, s.indexKey(), k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("escribir documentos: %w", err)
	}
	return nil
}

// Keys claves presentes en orden alfabético.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
