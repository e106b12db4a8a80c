package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		expectError bool
	}{
		{
			name: "loads listed files",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n",
				"base.yaml": "service:\n  name: nbcopilot\n",
			},
		},
		{
			name: "skips missing files",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n  - local.yaml\n",
				"base.yaml": "service:\n  name: nbcopilot\n",
			},
		},
		{
			name:        "fails without meta.yaml",
			files:       map[string]string{"base.yaml": "a: b\n"},
			expectError: true,
		},
		{
			name: "fails on invalid meta.yaml",
			files: map[string]string{
				"meta.yaml": "files: [\n",
			},
			expectError: true,
		},
		{
			name: "fails when no listed file exists",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envConfigDir, writeConfigDir(t, tt.files))

			provider, err := NewConfig()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, provider)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "config", provider.Name())
			assert.Equal(t, "nbcopilot", provider.Get("service.name").String())
		})
	}
}

func TestConfigFilePriority(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml":        "files:\n  - base.yaml\n  - development.yaml\n  - local.yaml\n",
		"base.yaml":        "service:\n  name: base-service\nlogging:\n  level: info\n",
		"development.yaml": "service:\n  name: dev-service\nlogging:\n  level: debug\n",
		"local.yaml":       "logging:\n  level: warn\n",
	})
	t.Setenv(_envConfigDir, dir)

	provider, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev-service", provider.Get("service.name").String())
	assert.Equal(t, "warn", provider.Get("logging.level").String())
	assert.False(t, provider.Get("nonexistent.path").HasValue())
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n",
		"base.yaml": "jsonrpc:\n  address: 127.0.0.1:${NBCOPILOT_PORT:27883}\n",
	})
	t.Setenv(_envConfigDir, dir)

	t.Run("default value", func(t *testing.T) {
		provider, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:27883", provider.Get("jsonrpc.address").String())
	})

	t.Run("override", func(t *testing.T) {
		t.Setenv("NBCOPILOT_PORT", "9000")
		provider, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", provider.Get("jsonrpc.address").String())
	})
}

func TestGetConfigDir(t *testing.T) {
	t.Run("returns environment variable when set", func(t *testing.T) {
		t.Setenv(_envConfigDir, "/custom/config/path")
		assert.Equal(t, "/custom/config/path", getConfigDir())
	})

	t.Run("returns default path when environment variable not set", func(t *testing.T) {
		t.Setenv(_envConfigDir, "")
		assert.Equal(t, "src/nbcopilot/config", getConfigDir())
	})
}
