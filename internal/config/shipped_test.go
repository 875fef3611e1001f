package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load("../../config/ecsdemo.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
