package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient values do not leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"MAX_CONNS", "MAX_BODY_BYTES", "REGISTRY_BACKEND", "ID_STRATEGY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, int64(32768), cfg.Server.MaxBodyBytes)
	assert.Equal(t, BackendMemory, cfg.Registry.Backend)
	assert.Equal(t, IDStrategyCount, cfg.Registry.IDStrategy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REGISTRY_BACKEND", BackendSQLite)
	t.Setenv("ID_STRATEGY", IDStrategyMonotonic)
	t.Setenv("READ_TIMEOUT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Registry.Backend)
	assert.Equal(t, IDStrategyMonotonic, cfg.Registry.IDStrategy)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "unparsable ints fall back to the default")
}

func TestLoadFile_OverlaysEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "0.0.0.0")
	path := filepath.Join(t.TempDir(), "bookshelf.yaml")
	content := "server:\n  port: 7000\n  maxConns: 64\nregistry:\n  idStrategy: monotonic\nlogLevel: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "keys absent from the file keep env values")
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.MaxConns)
	assert.Equal(t, BackendMemory, cfg.Registry.Backend)
	assert.Equal(t, IDStrategyMonotonic, cfg.Registry.IDStrategy)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"unknown backend", func(c *Config) { c.Registry.Backend = "redis" }},
		{"unknown strategy", func(c *Config) { c.Registry.IDStrategy = "uuid" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
