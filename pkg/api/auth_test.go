package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/pkg/api/testutils"
)

func TestSession_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		session  *Session
		expected bool
	}{
		{
			name:     "nil session",
			session:  nil,
			expected: false,
		},
		{
			name:     "empty token",
			session:  &Session{ExpiresAt: time.Now().Add(time.Hour)},
			expected: false,
		},
		{
			name:     "expired",
			session:  &Session{AccessToken: "t", ExpiresAt: time.Now().Add(-time.Hour)},
			expected: false,
		},
		{
			name:     "inside the expiry margin",
			session:  &Session{AccessToken: "t", ExpiresAt: time.Now().Add(10 * time.Second)},
			expected: false,
		},
		{
			name:     "valid",
			session:  &Session{AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.session.IsValid())
		})
	}
}

func newTestAuthManager(fb *fakeBackend, password string, cache *testutils.InMemoryCache) *AuthManager {
	hc := NewHTTPClient(fb.server.Client(), fb.server.URL, testAnonKey, testutils.NewTestLogger())
	return NewAuthManager(hc, testEmail, password, testutils.NewTestLogger(), cache)
}

func TestAuthManager_PasswordGrant(t *testing.T) {
	fb := newFakeBackend(t)
	cache := testutils.NewInMemoryCache()
	am := newTestAuthManager(fb, testPassword, cache)

	session, err := am.GetValidSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToken, session.AccessToken)
	assert.Equal(t, testUserID, session.User.ID)
	assert.Equal(t, "password", fb.lastGrant.Load())
	assert.True(t, cache.Has(sessionCacheKeyPrefix+testEmail))

	// Second call reuses the session.
	_, err = am.GetValidSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fb.tokenCalls.Load())
}

func TestAuthManager_BadCredentials(t *testing.T) {
	fb := newFakeBackend(t)
	am := newTestAuthManager(fb, "wrong", testutils.NewInMemoryCache())

	_, err := am.Login(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "Invalid login credentials")
	assert.Nil(t, am.Session())
}

func TestAuthManager_UsesCachedSession(t *testing.T) {
	fb := newFakeBackend(t)
	cache := testutils.NewInMemoryCache()
	require.NoError(t, cache.Set(sessionCacheKeyPrefix+testEmail, &Session{
		AccessToken: testToken,
		ExpiresAt:   time.Now().Add(time.Hour),
	}, 0))

	am := newTestAuthManager(fb, "", cache)

	session, err := am.GetValidSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToken, session.AccessToken)
	assert.Equal(t, int32(0), fb.tokenCalls.Load())
}

func TestAuthManager_RefreshesExpiredSession(t *testing.T) {
	fb := newFakeBackend(t)
	cache := testutils.NewInMemoryCache()
	require.NoError(t, cache.Set(sessionCacheKeyPrefix+testEmail, &Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-0",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}, 0))

	am := newTestAuthManager(fb, "", cache)

	session, err := am.GetValidSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToken, session.AccessToken)
	assert.Equal(t, "refresh_token", fb.lastGrant.Load())
}

func TestAuthManager_NoPasswordNoSession(t *testing.T) {
	fb := newFakeBackend(t)
	am := newTestAuthManager(fb, "", testutils.NewInMemoryCache())

	_, err := am.GetValidSession(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int32(0), fb.tokenCalls.Load())
}

func TestAuthManager_ClearSessionDeletesCachedCopy(t *testing.T) {
	cache := new(testutils.MockCache)
	cache.On("Set", sessionCacheKeyPrefix+testEmail, mock.Anything, time.Duration(0)).Return(nil)
	cache.On("Delete", sessionCacheKeyPrefix+testEmail).Return(nil)

	fb := newFakeBackend(t)
	hc := NewHTTPClient(fb.server.Client(), fb.server.URL, testAnonKey, testutils.NewTestLogger())
	am := NewAuthManager(hc, testEmail, testPassword, testutils.NewTestLogger(), cache)

	_, err := am.Login(context.Background())
	require.NoError(t, err)

	require.NoError(t, am.Logout(context.Background()))
	assert.Nil(t, am.Session())
	cache.AssertExpectations(t)
}
