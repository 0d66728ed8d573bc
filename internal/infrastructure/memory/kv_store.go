// Package memory implementa los puertos de persistencia en memoria del proceso
// (modo por defecto y tests).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-console/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVStore almacén clave-valor en memoria.
type KVStore struct {
	mu       sync.RWMutex
	docs     map[string][]byte
	failNext error
}

// NewKVStore construye un almacén vacío.
func NewKVStore() *KVStore {
	return &KVStore{docs: map[string][]byte{}}
}

// Get devuelve una copia del documento.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// PutBatch escribe todas las claves bajo el mismo bloqueo.
func (s *KVStore) PutBatch(_ context.Context, docs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	for k, v := range docs {
		s.docs[k] = append([]byte(nil), v...)
	}
	return nil
}

// Keys claves presentes en orden alfabético.
func (s *KVStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FailNextWrite hace que la próxima PutBatch devuelva err sin escribir nada.
func (s *KVStore) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}
