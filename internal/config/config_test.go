package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads YAML with defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  url: postgres://localhost:5432/app
spotify:
  client_id: id
  client_secret: secret
completion:
  api_key: key
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "postgres://localhost:5432/app", cfg.Database.URL)
		assert.Equal(t, "id", cfg.Spotify.ClientID)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 30*time.Second, cfg.Spotify.TokenMargin)
		assert.Equal(t, 5, cfg.Taste.WindowSize)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  addr: 127.0.0.1:9090
database:
  url: postgres://localhost:5432/app
spotify:
  client_id: id
  client_secret: secret
completion:
  api_key: key
taste:
  window_size: 3
log:
  level: debug
  format: json
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
		assert.Equal(t, 3, cfg.Taste.WindowSize)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("missing required value", func(t *testing.T) {
		path := writeConfigFile(t, `
spotify:
  client_id: id
  client_secret: secret
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env:5432/app")
		t.Setenv("SPOTIFY_ID", "env-id")
		t.Setenv("SPOTIFY_SECRET", "env-secret")
		t.Setenv("COMPLETION_API_KEY", "env-key")
		t.Setenv("TASTE_WINDOW_SIZE", "7")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "postgres://env:5432/app", cfg.Database.URL)
		assert.Equal(t, 7, cfg.Taste.WindowSize)
	})
}
