package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validConfig() *Config {
	cfg := NewConfig()
	cfg.URL = "https://abc.supabase.co"
	cfg.AnonKey = "anon"
	cfg.Email = "owner@example.com"
	cfg.SetDefaults()

	return cfg
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Zero(t, cfg.PageSize, "tables keep their own page size")
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.Realtime)
	assert.Equal(t, DefaultKeyBindings(), cfg.KeyBindings)
	assert.Equal(t, "default", cfg.Theme.Name)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		check  func(t *testing.T, cfg *Config)
		hasErr bool
	}{
		{
			name: "all variables",
			env: map[string]string{
				"LYNVA_URL":       "https://env.supabase.co",
				"LYNVA_ANON_KEY":  "env-anon",
				"LYNVA_EMAIL":     "env@example.com",
				"LYNVA_PASSWORD":  "env-pass",
				"LYNVA_INSECURE":  "TRUE",
				"LYNVA_DEBUG":     "true",
				"LYNVA_CACHE_DIR": "/tmp/lynva-cache",
				"LYNVA_PAGE_SIZE": "50",
				"LYNVA_CACHE_TTL": "90s",
				"LYNVA_REALTIME":  "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://env.supabase.co", cfg.URL)
				assert.Equal(t, "env-anon", cfg.AnonKey)
				assert.Equal(t, "env@example.com", cfg.Email)
				assert.Equal(t, "env-pass", cfg.Password)
				assert.True(t, cfg.Insecure)
				assert.True(t, cfg.Debug)
				assert.Equal(t, "/tmp/lynva-cache", cfg.CacheDir)
				assert.Equal(t, 50, cfg.PageSize)
				assert.Equal(t, 90*time.Second, cfg.CacheTTL)
				assert.False(t, cfg.Realtime)
			},
		},
		{
			name: "blank values are ignored",
			env:  map[string]string{"LYNVA_URL": "  ", "LYNVA_PAGE_SIZE": ""},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.URL)
				assert.Zero(t, cfg.PageSize)
			},
		},
		{
			name:   "bad page size",
			env:    map[string]string{"LYNVA_PAGE_SIZE": "many"},
			hasErr: true,
		},
		{
			name:   "bad ttl",
			env:    map[string]string{"LYNVA_CACHE_TTL": "soon"},
			hasErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			err := cfg.ApplyEnv(envLookup(tt.env))

			if tt.hasErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestMergeWithFile(t *testing.T) {
	path := writeFile(t, `
url: https://file.supabase.co
anon_key: file-anon
email: file@example.com
page_size: 10
cache_ttl: 2m
realtime: false
insecure: true
key_bindings:
  search: "Ctrl+F"
theme:
  name: nord
  colors:
    accent: "#ff00ff"
`)

	cfg := NewConfig()
	require.NoError(t, cfg.MergeWithFile(path))

	assert.Equal(t, "https://file.supabase.co", cfg.URL)
	assert.Equal(t, "file-anon", cfg.AnonKey)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.Realtime)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "Ctrl+F", cfg.KeyBindings.Search)
	assert.Equal(t, "f", cfg.KeyBindings.Filters, "unset bindings keep their defaults")
	assert.Equal(t, "nord", cfg.Theme.Name)
	assert.Equal(t, "#ff00ff", cfg.Theme.Colors["accent"])
	assert.Equal(t, path, cfg.Path())
	assert.False(t, cfg.IsSOPSEncrypted())
}

func TestMergeWithFile_Errors(t *testing.T) {
	cfg := NewConfig()

	require.NoError(t, cfg.MergeWithFile(""))
	require.Error(t, cfg.MergeWithFile(filepath.Join(t.TempDir(), "missing.yml")))
	require.Error(t, cfg.MergeWithFile(writeFile(t, "page_size: [1, 2")))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "url: https://file.supabase.co\nanon_key: file-anon\nemail: file@example.com\n")

	t.Setenv("LYNVA_EMAIL", "env@example.com")
	t.Setenv("LYNVA_CACHE_DIR", t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.supabase.co", cfg.URL)
	assert.Equal(t, "env@example.com", cfg.Email)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	cfg := &Config{URL: "abc.supabase.co/", KeyBindings: KeyBindings{Search: "Ctrl+F"}}
	cfg.SetDefaults()

	assert.Equal(t, "https://abc.supabase.co", cfg.URL)
	assert.Zero(t, cfg.PageSize)
	assert.Equal(t, filepath.Join("/xdg/cache", "lynva-tui"), cfg.CacheDir)
	assert.Equal(t, "Ctrl+F", cfg.KeyBindings.Search)
	assert.Equal(t, "q", cfg.KeyBindings.Quit)
	assert.Equal(t, "default", cfg.Theme.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"password optional", func(c *Config) { c.Password = "" }, ""},
		{"missing url", func(c *Config) { c.URL = "" }, "project URL required"},
		{"bad url", func(c *Config) { c.URL = "https://" }, "invalid project URL"},
		{"missing anon key", func(c *Config) { c.AnonKey = "" }, "anon key required"},
		{"missing email", func(c *Config) { c.Email = "" }, "email required"},
		{"page size unset", func(c *Config) { c.PageSize = 0 }, ""},
		{"page size negative", func(c *Config) { c.PageSize = -1 }, "page_size"},
		{"page size too big", func(c *Config) { c.PageSize = 101 }, "page_size"},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, "cache_ttl"},
		{"bad key", func(c *Config) { c.KeyBindings.Search = "Hyper+S" }, "invalid key binding search"},
		{"reserved key", func(c *Config) { c.KeyBindings.Search = "j" }, "reserved"},
		{"duplicate key", func(c *Config) { c.KeyBindings.Search = "f" }, "duplicates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetPassword(t *testing.T) {
	useTempAgeDir(t)

	cfg := validConfig()
	cfg.Password = "plain"
	assert.Equal(t, "plain", cfg.GetPassword())
	assert.True(t, cfg.HasCleartextPassword())

	enc, err := EncryptField("hidden")
	require.NoError(t, err)

	cfg.Password = enc
	assert.Equal(t, "hidden", cfg.GetPassword())
	assert.False(t, cfg.HasCleartextPassword())

	cfg.Password = encryptionPrefix + "garbage"
	assert.Empty(t, cfg.GetPassword())
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHomePath("~"))
	assert.Equal(t, filepath.Join(home, "cache"), ExpandHomePath("~/cache"))
	assert.Equal(t, "/abs/path", ExpandHomePath(" /abs/path "))
	assert.Equal(t, "", ExpandHomePath(""))
}
