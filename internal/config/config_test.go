package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.ConvertFloat16)
	assert.False(t, config.ZeroCopy)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "  ", config.Indent)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expected := &Config{
			ConvertFloat16: false,
			ZeroCopy:       true,
			LogLevel:       "debug",
			Indent:         "\t",
			HTTPTimeout:    5 * time.Second,
		}
		require.NoError(t, SaveConfig(expected, configPath))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expected, loaded)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("log_level: warn\nhttp_timeout: 2m\n"), 0o600))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "warn", loaded.LogLevel)
		assert.Equal(t, 2*time.Minute, loaded.HTTPTimeout)
		assert.True(t, loaded.ConvertFloat16)
		assert.Equal(t, "  ", loaded.Indent)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("zero_copy: [unclosed"), 0o600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("negative timeout", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("http_timeout: -1s\n"), 0o600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
	})
}

func TestReadOptions(t *testing.T) {
	config := DefaultConfig()
	config.ConvertFloat16 = false
	config.ZeroCopy = true

	opts := config.ReadOptions()
	assert.False(t, opts.ConvertFloat16)
	assert.True(t, opts.ZeroCopy)
}
