package system

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/config"
	"github.com/l1jgo/ecsrt/internal/world"
)

type part func(world.Entity, *component.Set)

func at(x, y float32) part {
	return func(e world.Entity, c *component.Set) { c.Position.Add(e, component.Position{X: x, Y: y}) }
}

func moving(dx, dy float32) part {
	return func(e world.Entity, c *component.Set) { c.Velocity.Add(e, component.Velocity{DX: dx, DY: dy}) }
}

func hp(cur, maxHP int32) part {
	return func(e world.Entity, c *component.Set) { c.Health.Add(e, component.Health{HP: cur, Max: maxHP}) }
}

func onTeam(id uint8) part {
	return func(e world.Entity, c *component.Set) { c.Team.Add(e, component.Team{ID: id}) }
}

func attacks(damage int32, rng float32) part {
	return func(e world.Entity, c *component.Set) { c.Attack.Add(e, component.Attack{Damage: damage, Range: rng}) }
}

func regenerates(amount int32) part {
	return func(e world.Entity, c *component.Set) { c.Regen.Add(e, component.Regen{Amount: amount}) }
}

func spawn(w *world.World, parts ...part) ecs.Entity {
	return w.CreateEntity(ecs.BuildFunc[component.Set](func(e world.Entity, c *component.Set) {
		for _, p := range parts {
			p(e, c)
		}
	}))
}

func testConfig() config.ArenaConfig {
	return config.ArenaConfig{Size: 64, RegenEvery: 1, RegenDelay: 0}
}

func newArenaWorld(t *testing.T, cfg config.ArenaConfig, scripts ...world.System) (*Arena, *world.World) {
	t.Helper()
	a := NewArena(cfg, zap.NewNop(), scripts...)
	return a, ecs.NewWorld(component.NewSet, world.State{}, a.Systems())
}

func health(w *world.World, e ecs.Entity) int32 {
	h, ok := w.Components.Health.Get(w.Indexed(e))
	if !ok {
		return -1
	}
	return h.HP
}

func TestArenaSystemOrder(t *testing.T) {
	a, _ := newArenaWorld(t, testConfig())
	got := a.Systems()
	require.Len(t, got, 8)
	assert.Same(t, a.Clock, got[0])
	assert.Same(t, a.Journal, got[6])
	assert.Same(t, a.Pruner, got[7])
}

func TestClockCountsUpdates(t *testing.T) {
	_, w := newArenaWorld(t, testConfig())
	for i := 0; i < 3; i++ {
		w.Update()
	}
	assert.Equal(t, uint64(3), w.Services.Tick)
}

func TestMovementWrapsAtEdges(t *testing.T) {
	_, w := newArenaWorld(t, testConfig())
	e := spawn(w, at(63, 0), moving(2, -1))
	still := spawn(w, at(5, 5))
	w.Update()

	p, _ := w.Components.Position.Get(w.Indexed(e))
	assert.Equal(t, component.Position{X: 1, Y: 63}, p)
	p, _ = w.Components.Position.Get(w.Indexed(still))
	assert.Equal(t, component.Position{X: 5, Y: 5}, p)
}

func TestTeamIndexFollowsComponent(t *testing.T) {
	a, w := newArenaWorld(t, testConfig())
	red1 := spawn(w, onTeam(1))
	red2 := spawn(w, onTeam(1))
	blue := spawn(w, onTeam(2))
	w.Update()

	teams := &w.Services.Teams
	got, _ := teams.Get(1)
	assert.ElementsMatch(t, []ecs.Entity{red1, red2}, got)
	assert.Equal(t, 3, a.Teams.Len())

	w.ModifyEntity(red2, ecs.ModifyFunc[component.Set](func(e world.Entity, c *component.Set) {
		c.Team.Set(e, component.Team{ID: 2})
	}))
	got, _ = teams.Get(1)
	assert.Equal(t, []ecs.Entity{red1}, got)
	got, _ = teams.Get(2)
	assert.ElementsMatch(t, []ecs.Entity{blue, red2}, got)

	w.ModifyEntity(blue, ecs.ModifyFunc[component.Set](func(e world.Entity, c *component.Set) {
		c.Team.Remove(e)
	}))
	got, _ = teams.Get(2)
	assert.Equal(t, []ecs.Entity{red2}, got)

	w.RemoveEntity(red1)
	w.Update()
	got, _ = teams.Get(1)
	assert.Empty(t, got)
}

func TestCombatStrikesNearestEnemyInRange(t *testing.T) {
	a, w := newArenaWorld(t, testConfig())
	spawn(w, at(0, 0), onTeam(1), attacks(3, 5))
	far := spawn(w, at(3, 0), onTeam(2), hp(10, 10))
	near := spawn(w, at(2, 0), onTeam(2), hp(10, 10))
	ally := spawn(w, at(1, 0), onTeam(1), hp(10, 10))
	out := spawn(w, at(10, 0), onTeam(2), hp(10, 10))
	w.Update()

	assert.Equal(t, int32(7), health(w, near))
	assert.Equal(t, int32(10), health(w, far))
	assert.Equal(t, int32(10), health(w, ally))
	assert.Equal(t, int32(10), health(w, out))
	assert.Equal(t, uint64(1), a.Journal.Hits())

	last, ok := w.Services.LastHit.Get(near)
	require.True(t, ok)
	assert.Equal(t, uint64(1), last)
}

func TestCombatSkipsTargetsKilledThisTick(t *testing.T) {
	a, w := newArenaWorld(t, testConfig())
	spawn(w, at(0, 0), onTeam(1), attacks(10, 8))
	spawn(w, at(0, 1), onTeam(1), attacks(10, 8))
	first := spawn(w, at(1, 0), onTeam(2), hp(5, 5))
	second := spawn(w, at(2, 0), onTeam(2), hp(5, 5))
	w.Update()

	assert.False(t, w.IsValid(first))
	assert.False(t, w.IsValid(second))
	assert.Equal(t, uint64(2), a.Journal.Hits())
	assert.Equal(t, uint64(2), a.Journal.Deaths())
	assert.Equal(t, uint64(2), w.Services.Kills)
	assert.Equal(t, 0, w.Services.LastHit.Len())
	assert.Equal(t, 2, w.EntityCount())
}

func TestCombatTieGoesToLowerID(t *testing.T) {
	_, w := newArenaWorld(t, testConfig())
	spawn(w, at(5, 5), onTeam(1), attacks(1, 3))
	low := spawn(w, at(5, 7), onTeam(2), hp(9, 9))
	high := spawn(w, at(5, 3), onTeam(2), hp(9, 9))
	w.Update()

	assert.Equal(t, int32(8), health(w, low))
	assert.Equal(t, int32(9), health(w, high))
}

func TestRegenWaitsForIntervalAndCaps(t *testing.T) {
	cfg := testConfig()
	cfg.RegenEvery = 2
	_, w := newArenaWorld(t, cfg)
	e := spawn(w, hp(5, 10), regenerates(2))

	var seen []int32
	for i := 0; i < 6; i++ {
		w.Update()
		seen = append(seen, health(w, e))
	}
	assert.Equal(t, []int32{5, 7, 7, 9, 9, 10}, seen)
}

func TestRegenPausesAfterHit(t *testing.T) {
	cfg := testConfig()
	cfg.RegenEvery = 2
	cfg.RegenDelay = 3
	_, w := newArenaWorld(t, cfg)
	e := spawn(w, hp(5, 10), regenerates(2))
	w.Services.LastHit.Set(e, 1)

	for i := 0; i < 2; i++ {
		w.Update()
	}
	assert.Equal(t, int32(5), health(w, e), "hit one tick ago")
	for i := 0; i < 2; i++ {
		w.Update()
	}
	assert.Equal(t, int32(7), health(w, e))
}

func TestReaperRemovesDeadAndPrunesTeams(t *testing.T) {
	a, w := newArenaWorld(t, testConfig())
	dead := spawn(w, hp(0, 10), onTeam(3))
	alive := spawn(w, hp(1, 10), onTeam(3))
	w.Update()

	assert.False(t, w.IsValid(dead))
	assert.True(t, w.IsValid(alive))
	assert.Equal(t, uint64(1), w.Services.Kills)
	assert.Equal(t, uint64(1), a.Journal.Deaths())
	got, _ := w.Services.Teams.Get(3)
	assert.Equal(t, []ecs.Entity{alive}, got)
}

func TestArenaSurvivesSaveAndLoad(t *testing.T) {
	_, w := newArenaWorld(t, testConfig())
	red := spawn(w, at(1, 1), onTeam(1), hp(10, 10), attacks(2, 4))
	blue := spawn(w, at(2, 1), onTeam(2), hp(10, 10), attacks(2, 4))
	for i := 0; i < 2; i++ {
		w.Update()
	}

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	b := NewArena(testConfig(), zap.NewNop())
	loaded, err := ecs.Load(&buf, component.NewSet, b.Systems())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), loaded.Services.Tick)
	got, _ := loaded.Services.Teams.Get(1)
	assert.Equal(t, []ecs.Entity{red}, got, "restored without duplicates")
	got, _ = loaded.Services.Teams.Get(2)
	assert.Equal(t, []ecs.Entity{blue}, got)
	assert.Equal(t, 2, b.Combat.LenA())
	assert.Equal(t, 2, b.Combat.LenB())

	loaded.Update()
	assert.Equal(t, uint64(3), loaded.Services.Tick)
	assert.Equal(t, int32(4), health(loaded, red))
	assert.Equal(t, uint64(2), b.Journal.Hits())
}
