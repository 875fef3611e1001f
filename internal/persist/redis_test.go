package persist

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisStore(t *testing.T, keep int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	store := NewRedisStoreFromClient(client, "test", keep, zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestRedisStoreLatestWithoutSave(t *testing.T) {
	store, _ := newTestRedisStore(t, 3)
	_, err := store.Latest(context.Background(), "arena")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t, 2)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	for tick := uint64(1); tick <= 3; tick++ {
		payload := []byte(`{"tick":` + strconv.FormatUint(tick, 10) + `}`)
		require.NoError(t, store.Save(ctx, NewSnapshot("arena", tick, payload)))
	}

	got, err := store.Latest(ctx, "arena")
	require.NoError(t, err)
	assert.Equal(t, "arena", got.World)
	assert.Equal(t, uint64(3), got.Tick)
	assert.Equal(t, []byte(`{"tick":3}`), got.Payload)
	assert.False(t, got.CreatedAt.IsZero())

	history, err := store.History(ctx, "arena")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, history)

	_, err = store.Latest(ctx, "other")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisStoreDetectsCorruption(t *testing.T) {
	store, s := newTestRedisStore(t, 1)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, NewSnapshot("arena", 7, []byte("payload"))))

	s.HSet(store.latestKey("arena"), "payload", "tampered")
	_, err := store.Latest(ctx, "arena")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
