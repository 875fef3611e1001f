package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecsrt/core/ecs"
)

type position struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

type health struct {
	HP  int32 `yaml:"hp"`
	Max int32 `yaml:"max"`
}

type components struct {
	Position *ecs.ComponentList[components, position]
	Health   *ecs.ComponentList[components, health]
}

func newComponents(r *ecs.Registry[components]) *components {
	return &components{
		Position: ecs.NewHot[components, position](r, "position"),
		Health:   ecs.NewHot[components, health](r, "health"),
	}
}

type services struct{}

const prefabYAML = `
prefabs:
  - name: soldier
    count: 3
    components:
      position: {x: 1.5, y: -2}
      Health: {hp: 30, max: 30}
  - name: marker
    count: 1
    components:
      position: {x: 0, y: 0}
  - name: template
    components:
      health: {hp: 1, max: 1}
`

func TestParsePrefabs(t *testing.T) {
	table, err := ParsePrefabs([]byte(prefabYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Count())
	assert.Equal(t, []string{"soldier", "marker", "template"}, table.Names())
	assert.Equal(t, 3, table.Get("soldier").Count)
	assert.Nil(t, table.Get("ghost"))
}

func TestParsePrefabsRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"no name":   "prefabs:\n  - count: 1\n",
		"duplicate": "prefabs:\n  - name: a\n  - name: a\n",
		"negative":  "prefabs:\n  - name: a\n    count: -1\n",
		"syntax":    "prefabs: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePrefabs([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestSpawnBuildsEntities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefabs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(prefabYAML), 0o644))
	table, err := LoadPrefabs(path)
	require.NoError(t, err)

	w := ecs.NewWorld(newComponents, services{}, nil)
	n, err := Spawn(table, w)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	w.FlushQueue()

	assert.Equal(t, 4, w.EntityCount())
	assert.Equal(t, 4, w.Components.Position.Len())
	assert.Equal(t, 3, w.Components.Health.Len())
	for _, h := range w.Components.Health.All() {
		assert.Equal(t, health{HP: 30, Max: 30}, *h)
	}
	for _, p := range w.Components.Position.All() {
		assert.Contains(t, []position{{X: 1.5, Y: -2}, {}}, *p)
	}
}

func TestBuilderValidatesComponents(t *testing.T) {
	table, err := ParsePrefabs([]byte("prefabs:\n  - name: mage\n    components:\n      mana: {amount: 3}\n"))
	require.NoError(t, err)
	w := ecs.NewWorld(newComponents, services{}, nil)

	_, err = Builder(table, "mage", w.Registry())
	assert.ErrorContains(t, err, "mana")
	_, err = Builder(table, "nobody", w.Registry())
	assert.Error(t, err)
}

func TestSpawnReportsDecodeErrors(t *testing.T) {
	table, err := ParsePrefabs([]byte("prefabs:\n  - name: bad\n    count: 2\n    components:\n      health: {hp: lots}\n"))
	require.NoError(t, err)
	w := ecs.NewWorld(newComponents, services{}, nil)

	n, err := Spawn(table, w)
	assert.Error(t, err)
	assert.Zero(t, n)
	w.FlushQueue()
	assert.Zero(t, w.EntityCount())
}

func TestBuilderErrTracksLatestBuild(t *testing.T) {
	table, err := ParsePrefabs([]byte(prefabYAML))
	require.NoError(t, err)
	w := ecs.NewWorld(newComponents, services{}, nil)

	b, err := Builder(table, "soldier", w.Registry())
	require.NoError(t, err)
	assert.NoError(t, b.Err())

	b.err = errors.New("left over")
	w.CreateEntity(b)
	assert.NoError(t, b.Err())

	bad, err := ParsePrefabs([]byte("prefabs:\n  - name: bad\n    components:\n      health: {hp: lots}\n"))
	require.NoError(t, err)
	bb, err := Builder(bad, "bad", w.Registry())
	require.NoError(t, err)
	for range 2 {
		w.CreateEntity(bb)
		assert.ErrorContains(t, bb.Err(), "prefab bad")
	}
}
