package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultConfigFileAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	gotPath, err := CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "anon_key:")
	assert.Contains(t, string(data), "# page_size: 25")

	require.NoError(t, os.WriteFile(path, []byte("url: kept\n"), 0o600))

	gotPath, err = CreateDefaultConfigFileAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "url: kept\n", string(data), "existing file is left alone")
}

func TestCreateDefaultConfigFileAt_EmptyPath(t *testing.T) {
	_, err := CreateDefaultConfigFileAt("")
	require.Error(t, err)
}

func TestTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	_, err := CreateDefaultConfigFileAt(path)
	require.NoError(t, err)

	cfg := NewConfig()
	require.NoError(t, cfg.MergeWithFile(path))

	assert.Equal(t, "https://your-project.supabase.co", cfg.URL)
	assert.Zero(t, cfg.PageSize)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.True(t, cfg.Realtime)
}

func TestSave_EncryptsPassword(t *testing.T) {
	useTempAgeDir(t)

	path := filepath.Join(t.TempDir(), "config.yml")

	cfg := NewConfig()
	cfg.URL = "https://abc.supabase.co"
	cfg.AnonKey = "anon"
	cfg.Email = "owner@example.com"
	cfg.Password = "s3cret"

	require.NoError(t, cfg.Save(path))
	assert.False(t, cfg.HasCleartextPassword())
	assert.Equal(t, path, cfg.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret")
	assert.Contains(t, string(data), encryptionPrefix)

	loaded := NewConfig()
	require.NoError(t, loaded.MergeWithFile(path))
	assert.Equal(t, "s3cret", loaded.GetPassword())
	assert.Equal(t, DefaultCacheTTL, loaded.CacheTTL)
}

func TestSave_RefusesSOPSFile(t *testing.T) {
	cfg := NewConfig()
	cfg.path = "/tmp/sops.yml"
	cfg.sopsEncrypted = true

	require.Error(t, cfg.Save("/tmp/sops.yml"))
}

func TestIsSOPSEncrypted(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"plain", "url: https://abc.supabase.co\n", false},
		{"mentions sops in a value", "email: sops@example.com\n", false},
		{"sops metadata", "password: ENC[AES256_GCM,data:abc]\nsops:\n  version: 3.9.0\n", true},
		{"invalid yaml", ":\n  - [", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSOPSEncrypted([]byte(tt.data)))
		})
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	assert.Equal(t, filepath.Join("/xdg/config", "lynva-tui", "config.yml"), GetDefaultConfigPath())
	assert.Equal(t, filepath.Join("/xdg/cache", "lynva-tui"), getXDGCacheDir())
}
