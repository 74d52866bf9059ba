package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closekit-dev/closekit/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "202301"))

	for _, d := range []string{"tb", "fx", "support", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "202301"))

	cfg, err := config.Load(filepath.Join(dir, "closekit.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "202301", cfg.Period)
	require.NoError(t, cfg.Validate())
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "202301"))

	err := runInit(dir, "202302")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
