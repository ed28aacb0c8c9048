package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "test"), mr
}

func TestRedisCache_GetMiss(t *testing.T) {
	rc, _ := newTestCache(t)

	val, ok, err := rc.Get(context.Background(), 0, "/api/v1/events")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestRedisCache_SetThenGet(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, 0, "/api/v1/events", []byte(`{"events":[]}`), time.Minute))

	val, ok, err := rc.Get(ctx, 0, "/api/v1/events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"events":[]}`, string(val))
	assert.True(t, mr.Exists("test:v0:/api/v1/events"))
}

func TestRedisCache_Expires(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, 0, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := rc.Get(ctx, 0, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_InvalidateOnlyTouchesPrefix(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, 0, "a", []byte("1"), time.Minute))
	require.NoError(t, rc.Set(ctx, 0, "b", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, rc.Invalidate(ctx))

	assert.False(t, mr.Exists("test:v0:a"))
	assert.False(t, mr.Exists("test:v0:b"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisCache_InvalidateBumpsGeneration(t *testing.T) {
	rc, _ := newTestCache(t)
	ctx := context.Background()

	gen, err := rc.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, rc.Invalidate(ctx))
	require.NoError(t, rc.Invalidate(ctx))

	gen, err = rc.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestRedisCache_WriteUnderOldGenerationIsUnseen(t *testing.T) {
	rc, _ := newTestCache(t)
	ctx := context.Background()

	before, err := rc.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, rc.Invalidate(ctx))

	// a slow reader finishing after the invalidation
	require.NoError(t, rc.Set(ctx, before, "/api/v1/events", []byte("stale"), time.Minute))

	now, err := rc.Generation(ctx)
	require.NoError(t, err)
	_, ok, err := rc.Get(ctx, now, "/api/v1/events")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_InvalidateEmpty(t *testing.T) {
	rc, _ := newTestCache(t)
	assert.NoError(t, rc.Invalidate(context.Background()))
}
