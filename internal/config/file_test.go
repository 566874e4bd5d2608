package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{
			"hub_url": "http://localhost:8080",
			"database_dsn": "postgres://a:b@db/hub",
			"mode": "direct",
			"http_timeout": "45s",
			"migrate_schema": true,
			"log_level": "debug",
			"log_format": "json",
			"log_backend": "zap"
		}`)

		cfg := &Config{}
		require.NoError(t, parseFile(cfg, path))

		assert.Equal(t, "http://localhost:8080", cfg.HubURL)
		assert.Equal(t, "postgres://a:b@db/hub", cfg.DatabaseDSN)
		assert.Equal(t, ModeDirect, cfg.Mode)
		assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
		assert.True(t, cfg.MigrateSchema)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "zap", cfg.LogBackend)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeTempFile(t, "cfg.yaml", "hub_url: http://yaml.example\nhttp_timeout: 2m\nmigrate_schema: false\n")

		cfg := &Config{MigrateSchema: true, LogLevel: "warn"}
		require.NoError(t, parseFile(cfg, path))

		assert.Equal(t, "http://yaml.example", cfg.HubURL)
		assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
		assert.False(t, cfg.MigrateSchema)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("partial file keeps other fields", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{"log_level": "error"}`)

		cfg := &Config{HubURL: "https://api.cozy.art", HTTPTimeout: 30 * time.Second, MigrateSchema: true}
		require.NoError(t, parseFile(cfg, path))

		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "https://api.cozy.art", cfg.HubURL)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		assert.True(t, cfg.MigrateSchema)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		cfg := &Config{HubURL: "x"}
		require.NoError(t, parseFile(cfg, ""))
		assert.Equal(t, "x", cfg.HubURL)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{ this is not valid json`)
		assert.Error(t, parseFile(&Config{}, path))
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempFile(t, "bad.yml", "http_timeout: [1, 2]\n")
		assert.Error(t, parseFile(&Config{}, path))
	})
}
