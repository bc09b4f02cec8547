package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewStore(client)
}

func TestPostContentKey(t *testing.T) {
	assert.Equal(t, "post:12:content", PostContentKey(12))
}

func TestStore_Aside(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	key := PostContentKey(1)

	calls := 0
	fetch := func(dest *string) func() error {
		return func() error {
			calls++
			*dest = "hello"
			return nil
		}
	}

	var first string
	require.NoError(t, store.Aside(ctx, key, &first, time.Minute, fetch(&first)))
	assert.Equal(t, "hello", first)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	var second string
	require.NoError(t, store.Aside(ctx, key, &second, time.Minute, fetch(&second)))
	assert.Equal(t, "hello", second)
	assert.Equal(t, 1, calls, "second read should be served from cache")

	store.InvalidatePost(ctx, 1)
	assert.False(t, mr.Exists(key))
}

func TestStore_AsideFetchError(t *testing.T) {
	mr, store := newTestStore(t)
	boom := errors.New("boom")

	var dest string
	err := store.Aside(context.Background(), "k", &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestStore_DegradesWhenRedisDown(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	var dest string
	err := store.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		dest = "from-db"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from-db", dest)
}

func TestStore_NilClient(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	found, err := store.GetJSON(ctx, "k", new(string))
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.SetJSON(ctx, "k", "v", time.Minute))
	store.Invalidate(ctx, "k")

	var dest string
	require.NoError(t, store.Aside(ctx, "k", &dest, time.Minute, func() error {
		dest = "db"
		return nil
	}))
	assert.Equal(t, "db", dest)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(mr.Addr())
	require.NotNil(t, client)
	_ = client.Close()

	client = NewClient("redis://" + mr.Addr() + "/0")
	require.NotNil(t, client)
	_ = client.Close()

	assert.Nil(t, NewClient("redis://%zz"))
	assert.Nil(t, NewClient(""))
}
