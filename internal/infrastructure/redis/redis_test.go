package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/pkg/config"
)

// newTestClient conecta a TEST_REDIS_ADDR; sin ella el test se omite. Cada test usa su prefijo.
func newTestClient(t *testing.T) (*redis.Client, string) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	prefix := "test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		if keys, err := client.Keys(ctx, prefix+"*").Result(); err == nil && len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})
	return client, prefix
}

func TestKVStore_PutGetKeys(t *testing.T) {
	client, prefix := newTestClient(t)
	s := NewKVStore(client, prefix)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutBatch(ctx, map[string][]byte{"users": []byte(`[]`), "products": []byte(`[{"id":"p1"}]`)}))
	got, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"products", "users"}, keys)
}

func TestSessionStore_TTL(t *testing.T) {
	client, prefix := newTestClient(t)
	s := NewSessionStore(client, prefix)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "s1", "u1", time.Minute))
	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got)

	require.NoError(t, s.Save(ctx, "s2", "u2", 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	got, err = s.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	got, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocker_ExclusionMutua(t *testing.T) {
	client, prefix := newTestClient(t)
	l := NewLocker(client, prefix, DefaultLockConfig())
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}
