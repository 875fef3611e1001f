package world

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/persist"
)

func newCheckpoint(t *testing.T) Checkpoint {
	t.Helper()
	s := miniredis.RunT(t)
	store := persist.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: s.Addr()}), "test", 3, zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return Checkpoint{Name: "arena", Store: store, Log: zap.NewNop()}
}

func TestCheckpointRoundTrip(t *testing.T) {
	cp := newCheckpoint(t)
	ctx := context.Background()

	w := ecs.NewWorld(component.NewSet, State{Tick: 41, Kills: 2}, nil)
	e := w.CreateEntity(ecs.BuildFunc[component.Set](func(e Entity, c *component.Set) {
		c.Health.Add(e, component.Health{HP: 3, Max: 9})
		c.Team.Add(e, component.Team{ID: 5})
	}))
	w.Services.Teams.Add(5, e)
	w.Update()
	require.NoError(t, cp.Save(ctx, w))

	got, err := cp.Restore(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(41), got.Services.Tick)
	assert.Equal(t, uint64(2), got.Services.Kills)
	members, _ := got.Services.Teams.Get(5)
	assert.Equal(t, []ecs.Entity{e}, members)

	h, ok := got.Components.Health.Get(got.Indexed(e))
	require.True(t, ok)
	assert.Equal(t, component.Health{HP: 3, Max: 9}, h)
	assert.Equal(t, ecs.Cold, got.Components.Team.Kind())
}

func TestCheckpointRestoreWithoutSnapshot(t *testing.T) {
	_, err := newCheckpoint(t).Restore(context.Background(), nil)
	assert.ErrorIs(t, err, persist.ErrNoSnapshot)
}

func TestCheckpointSaveFlushesFirst(t *testing.T) {
	cp := newCheckpoint(t)
	ctx := context.Background()
	w := ecs.NewWorld(component.NewSet, State{}, nil)
	e := w.CreateEntity(nil)
	require.NoError(t, cp.Save(ctx, w))

	got, err := cp.Restore(ctx, nil)
	require.NoError(t, err)
	assert.True(t, got.IsValid(e))
	assert.Equal(t, 1, got.EntityCount())
}
