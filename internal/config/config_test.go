package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecsdemo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[world]
name = "duel"
tick_rate = "50ms"

[arena]
size = 32.0

[snapshot]
backend = "redis"

[scripting]
modules = ["medic", "poison"]

[redis]
addr = "cache:6379"
db = 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "duel", cfg.World.Name)
	assert.Equal(t, 50*time.Millisecond, cfg.World.TickRate)
	assert.Equal(t, 1500, cfg.World.SaveIntervalTicks)
	assert.Equal(t, float32(32), cfg.Arena.Size)
	assert.Equal(t, 5, cfg.Arena.RegenEvery)
	assert.Equal(t, BackendRedis, cfg.Snapshot.Backend)
	assert.Equal(t, 10, cfg.Snapshot.Keep)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "ecsrt", cfg.Redis.KeyPrefix)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"medic", "poison"}, cfg.Scripting.Modules)
	assert.Equal(t, "scripts", cfg.Scripting.Dir)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"backend":   "[snapshot]\nbackend = \"mongo\"\n",
		"tick rate": "[world]\ntick_rate = \"0s\"\n",
		"interval":  "[world]\nsave_interval_ticks = -1\n",
		"regen":     "[arena]\nregen_every = 0\n",
		"queue":     "[world]\nqueue_capacity = -1\n",
		"size":      "[arena]\nsize = -4.0\n",
		"keep":      "[snapshot]\nkeep = 0\n",
		"syntax":    "[world\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
