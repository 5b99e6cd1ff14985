package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/internal/cache"
	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/pkg/api"
	"github.com/lynva/lynva-tui/pkg/mockapi"
)

func testConfig(t *testing.T, url, password string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.URL = url
	cfg.AnonKey = mockapi.DefaultAnonKey
	cfg.Email = mockapi.DefaultEmail
	cfg.Password = password
	cfg.CacheDir = t.TempDir()
	cfg.SetDefaults()

	require.NoError(t, cfg.Validate())

	return cfg
}

func startBackend(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(mockapi.NewServer(mockapi.NewState(), mockapi.DefaultAnonKey))
	t.Cleanup(srv.Close)

	return srv.URL
}

func TestOpenNoCacheUsesMemory(t *testing.T) {
	cfg := testConfig(t, startBackend(t), mockapi.DefaultPassword)

	env, err := Open(cfg, Options{NoCache: true})
	require.NoError(t, err)
	defer func() { assert.NoError(t, env.Close()) }()

	_, ok := env.Cache.(*cache.MemoryCache)
	assert.True(t, ok, "expected memory cache, got %T", env.Cache)

	user, err := env.EnsureSession(t.Context())
	require.NoError(t, err)
	assert.Equal(t, mockapi.DefaultEmail, user.Email)
}

func TestEnsureSessionWithoutPassword(t *testing.T) {
	cfg := testConfig(t, startBackend(t), "")

	env, err := Open(cfg, Options{NoCache: true})
	require.NoError(t, err)
	defer func() { _ = env.Close() }()

	_, err = env.EnsureSession(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "lynva-tui login")
}

func TestSessionSurvivesRestart(t *testing.T) {
	url := startBackend(t)
	cfg := testConfig(t, url, mockapi.DefaultPassword)

	env, err := Open(cfg, Options{})
	require.NoError(t, err)

	_, err = env.Client.Login(t.Context())
	require.NoError(t, err)
	require.NoError(t, env.Close())

	// Same cache dir, no password: the persisted session must be enough.
	again := *cfg
	again.Password = ""

	env, err = Open(&again, Options{})
	require.NoError(t, err)
	defer func() { _ = env.Close() }()

	user, err := env.EnsureSession(t.Context())
	require.NoError(t, err)
	assert.Equal(t, mockapi.DefaultEmail, user.Email)
}
