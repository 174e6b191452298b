package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-rs/skyzen/core/server"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1<<20, cfg.MaxHeaderBytes)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without environment", func(t *testing.T) {
		cfg, err := server.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_ADDR", ":9999")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")
		t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "1s")

		cfg, err := server.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
		assert.Equal(t, time.Second, cfg.ShutdownTimeout)
	})

	t.Run("invalid duration fails", func(t *testing.T) {
		t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

		_, err := server.LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfigFromFile(t *testing.T) {
	t.Parallel()

	t.Run("reads yaml values", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "server.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"addr: \":7070\"\nread_timeout: 10s\nshutdown_timeout: 45s\n",
		), 0o600))

		cfg, err := server.ConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Addr)
		assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 45*time.Second, cfg.ShutdownTimeout)

		// Untouched fields keep their defaults.
		assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		_, err := server.ConfigFromFile("/nonexistent/server.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [\n"), 0o600))

		_, err := server.ConfigFromFile(path)
		assert.Error(t, err)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})
}
