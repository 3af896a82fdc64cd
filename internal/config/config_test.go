package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setServerEnv pins every server variable to its default, so the host
// environment cannot leak into a test.
func setServerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "5001")
	t.Setenv("DB_PATH", "data/eligibility.db")
	t.Setenv("CATALOG_PATH", "data/catalog.yaml")
	t.Setenv("CATALOG_RELOAD_INTERVAL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadServer_Defaults(t *testing.T) {
	setServerEnv(t)
	t.Setenv("CATALOG_RELOAD_INTERVAL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, "data/eligibility.db", cfg.DBPath)
	assert.Equal(t, "data/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, 10*time.Minute, cfg.ReloadInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadServer_Overrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("CATALOG_PATH", "/etc/catalog.yaml")
	t.Setenv("CATALOG_RELOAD_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReloadInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadServer_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port out of range", "PORT", "70000", "invalid port"},
		{"empty db path", "DB_PATH", "", "database path is required"},
		{"no origins", "CORS_ALLOWED_ORIGINS", " , ", "allowed origin"},
		{"zero interval", "CATALOG_RELOAD_INTERVAL", "0s", "reload interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setServerEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadServer()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("ELIGIBILITY_API_URL", "http://localhost:5001/")
	t.Setenv("LOOKUP_DEBOUNCE", "250ms")
	t.Setenv("LOOKUP_TIMEOUT", "not-a-duration")
	t.Setenv("LOG_LEVEL", "nonsense")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5001", cfg.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Timeout, "unparseable values fall back to the default")
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadClient_InvalidURL(t *testing.T) {
	t.Setenv("ELIGIBILITY_API_URL", "localhost:5001")

	_, err := LoadClient()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API URL")
}
