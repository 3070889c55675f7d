package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8317, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8317", cfg.Server.Addr())
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, int64(16), cfg.Server.MaxUploadMB)
	assert.Equal(t, "rates.csv", cfg.Reference.RatesPath)
	assert.Equal(t, "bands.csv", cfg.Reference.BandsPath)
	assert.Equal(t, "clean", cfg.Ingest.DefaultProfile)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9000
metrics = false

[reference]
rates_path = "/data/rates.csv"

[ingest]
default_profile = "ledger"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "/data/rates.csv", cfg.Reference.RatesPath)
	assert.Equal(t, "ledger", cfg.Ingest.DefaultProfile)

	// Untouched sections keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "bands.csv", cfg.Reference.BandsPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
