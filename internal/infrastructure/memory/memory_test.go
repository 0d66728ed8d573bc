package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/infrastructure/memory"
)

func TestKVStore_PutBatchYGet(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKVStore()

	_, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutBatch(ctx, map[string][]byte{"products": []byte("[]"), "users": []byte("[]")}))
	v, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(v))

	keys, _ := s.Keys(ctx)
	assert.Equal(t, []string{"products", "users"}, keys)
}

func TestKVStore_FallaSinEscrituraParcial(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKVStore()
	s.FailNextWrite(errors.New("disco lleno"))

	err := s.PutBatch(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")})
	assert.Error(t, err)
	keys, _ := s.Keys(ctx)
	assert.Empty(t, keys)

	assert.NoError(t, s.PutBatch(ctx, map[string][]byte{"a": []byte("1")}), "solo falla una vez")
}

func TestSessionStore_Expiracion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSessionStore()

	require.NoError(t, s.Save(ctx, "s1", "u1", time.Hour))
	uid, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	require.NoError(t, s.Save(ctx, "s2", "u2", time.Nanosecond))
	time.Sleep(time.Millisecond)
	uid, _ = s.Get(ctx, "s2")
	assert.Empty(t, uid)

	require.NoError(t, s.Delete(ctx, "s1"))
	uid, _ = s.Get(ctx, "s1")
	assert.Empty(t, uid)
}
