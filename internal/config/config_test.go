package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Empty(t, cfg.Server.Host)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.True(t, cfg.Weather.ForceIPv4)
	assert.Zero(t, cfg.Weather.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 4000
storage:
  backend: file
  location_file: /tmp/locations.json
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Empty(t, cfg.Server.Host)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/locations.json", cfg.Storage.LocationFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.Weather.ForecastURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CITYWEATHER_SERVER_PORT", "8081")
	t.Setenv("CITYWEATHER_WEATHER_FORCE_IPV4", "false")
	t.Setenv("CITYWEATHER_STORAGE_BACKEND", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.False(t, cfg.Weather.ForceIPv4)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"postgres without url", func(c *Config) { c.Storage.Backend = BackendPostgres }},
		{"missing forecast url", func(c *Config) { c.Weather.ForecastURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestServerConfigAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
	assert.Equal(t, "[::1]:8080", ServerConfig{Host: "::1", Port: 8080}.Addr())
}
