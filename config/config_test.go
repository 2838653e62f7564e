package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/config"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "compliance.db", cfg.DBPath)
	assert.False(t, cfg.Seed)
	assert.False(t, cfg.StopOnFirstFailure)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":9090\"\ndb_path: /tmp/test.db\nstop_on_first_failure: true\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.StopOnFirstFailure)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: from-file.db\n"), 0o644))

	t.Setenv("SHIFTGUARD_DB_PATH", "from-env.db")
	t.Setenv("SHIFTGUARD_JURISDICTION_FILE", "/etc/shiftguard/ca.json")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, "/etc/shiftguard/ca.json", cfg.JurisdictionFile)
}

func TestLoad_BadFile(t *testing.T) {
	_, err := config.Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoad_EmptyAddrRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \"\"\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
