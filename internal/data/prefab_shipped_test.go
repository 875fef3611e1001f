package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/internal/component"
)

func TestShippedPrefabs(t *testing.T) {
	table, err := LoadPrefabs("../../data/prefabs.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"red_knight", "blue_archer", "green_brute", "training_dummy"}, table.Names())

	w := ecs.NewWorld(component.NewSet, struct{}{}, nil)
	n, err := Spawn(table, w)
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	w.Update()

	c := w.Components
	assert.Equal(t, 17, c.Health.Len())
	assert.Equal(t, 15, c.Attack.Len())
	assert.Equal(t, 11, c.Regen.Len())
	assert.Equal(t, 15, c.Velocity.Len())
}
