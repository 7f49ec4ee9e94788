package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store, key string) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "missing key should return nil entry")

	require.NoError(t, store.Set(ctx, key, `[{"id":1}]`, false))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `[{"id":1}]`, got.Value)
	assert.False(t, got.Shared)

	require.NoError(t, store.Set(ctx, key, `[]`, true))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `[]`, got.Value, "set overwrites rather than merges")
	assert.True(t, got.Shared)

	require.NoError(t, store.Delete(ctx, key))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Delete(ctx, key), "deleting a missing key is not an error")
	assert.ErrorIs(t, store.Set(ctx, "", "x", false), ErrEmptyKey)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(0)
	exerciseStore(t, store, "chat_history_1")
	require.NoError(t, store.Ping(context.Background()))
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "v", false))

	now = now.Add(59 * time.Second)
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)

	now = now.Add(time.Second)
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore(0)
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(ctx, "k", "v", false), ErrClosed)
	assert.ErrorIs(t, store.Ping(ctx), ErrClosed)
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = NewStore(StoreTypeRedis)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewStore("sqlite")
	assert.True(t, errors.Is(err, ErrInvalidStoreType))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	client, err := NewRedisClient(context.Background(), url)
	require.NoError(t, err)

	prefix := fmt.Sprintf("hamra-test-%d:", time.Now().UnixNano())
	store, err := NewStore(StoreTypeRedis, WithRedisClient(client), WithKeyPrefix(prefix), WithTTL(time.Minute))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store, "chat_history_42")
}
