package config

import (
	"os"
	"path/filepath"
	"testing"

	"salesdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "GIN_MODE", "DATASET_DIR", "DATASET_BASE_URL", "REGISTRY_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
}

func TestLoadDefaultsWithDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATASET_DIR", dir)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, "debug", c.Server.GinMode)
	assert.Equal(t, dir, c.Data.Dir)
	assert.True(t, c.Data.UsesLocalDir())
	assert.Equal(t, "INFO", c.LogLevel)
}

func TestPrefixedEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SALESDASH_PORT", "9100")
	t.Setenv("DATASET_BASE_URL", "http://localhost:3000/dashboard_data")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9100", c.Server.Port)
	assert.False(t, c.Data.UsesLocalDir())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "salesdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7070\"\n  gin_mode: release\ndata:\n  dir: "+dir+"\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", c.Server.Port)
	assert.Equal(t, "release", c.Server.GinMode)

	t.Setenv("GIN_MODE", "test")
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Server.GinMode)
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"no data source": {},
		"bad port":       {"PORT": "http", "DATASET_BASE_URL": "http://x"},
		"bad gin mode":   {"GIN_MODE": "loud", "DATASET_BASE_URL": "http://x"},
		"missing dir":    {"DATASET_DIR": "/definitely/not/here"},
		"bad url":        {"DATASET_BASE_URL": "not a url"},
		"bad registry":   {"DATASET_BASE_URL": "http://x", "REGISTRY_FILE": "/no/such/registry.yaml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestOverridesWin(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATASET_BASE_URL", "http://localhost:3000/dashboard_data")

	c, err := LoadWithOverrides("", map[string]interface{}{
		"data.dir":      dir,
		"server.port":   "9300",
		"data.base_url": "",
	})
	require.NoError(t, err)
	assert.Equal(t, dir, c.Data.Dir)
	assert.Equal(t, "9300", c.Server.Port)
	assert.True(t, c.Data.UsesLocalDir())
}
