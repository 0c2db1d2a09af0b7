package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /var/lib/midg.db\nworkers: 4\nverbose: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/midg.db", cfg.DB)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 4, *cfg.Workers)
	require.NotNil(t, cfg.Verbose)
	assert.True(t, *cfg.Verbose)
	assert.Nil(t, cfg.MaxColors)
}

func TestLoadConfigMissing(t *testing.T) {
	for _, path := range []string{filepath.Join(t.TempDir(), "missing.yaml"), ""} {
		cfg, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, Config{}, cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [\n"), 0o644))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigUnreadable(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
