package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toshio/canistorage/pkg/config"
)

func TestRunConfigInit_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	require.NoError(t, runConfigInit(configInitCmd, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "change-me", cfg.Auth.SigningKey)
	assert.Equal(t, "fs", cfg.Volume.Backend)
}

func TestRunConfigInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfgFile = path
	forceConfigInit = false
	t.Cleanup(func() { cfgFile = ""; forceConfigInit = false })

	require.NoError(t, runConfigInit(configInitCmd, nil))
	err := runConfigInit(configInitCmd, nil)
	assert.Error(t, err)

	forceConfigInit = true
	assert.NoError(t, runConfigInit(configInitCmd, nil))
}
