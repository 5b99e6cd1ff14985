package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// expiryMargin renews tokens slightly before the server would reject them.
const expiryMargin = 30 * time.Second

const sessionCacheKeyPrefix = "auth:session:"

// Session is a signed-in GoTrue session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// IsValid checks if the access token is present and not about to expire.
func (s *Session) IsValid() bool {
	return s != nil && s.AccessToken != "" && time.Now().Add(expiryMargin).Before(s.ExpiresAt)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

func (r tokenResponse) session() *Session {
	expires := time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	if r.ExpiresAt > 0 {
		expires = time.Unix(r.ExpiresAt, 0)
	}

	return &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expires,
		User:         r.User,
	}
}

// AuthManager obtains, refreshes and persists the session.
type AuthManager struct {
	httpClient *HTTPClient
	email      string
	password   string
	logger     interfaces.Logger
	cache      interfaces.Cache
	session    *Session
	mu         sync.RWMutex
}

// NewAuthManager creates an auth manager for the password grant. httpClient
// must not carry an AuthManager itself.
func NewAuthManager(httpClient *HTTPClient, email, password string, logger interfaces.Logger, cache interfaces.Cache) *AuthManager {
	return &AuthManager{
		httpClient: httpClient,
		email:      email,
		password:   password,
		logger:     logger,
		cache:      cache,
	}
}

// GetValidSession returns a usable session, refreshing or signing in again
// when needed.
func (am *AuthManager) GetValidSession(ctx context.Context) (*Session, error) {
	am.mu.RLock()
	if am.session.IsValid() {
		session := am.session
		am.mu.RUnlock()
		return session, nil
	}
	am.mu.RUnlock()

	return am.renew(ctx)
}

// Login forces a password grant with the configured credentials.
func (am *AuthManager) Login(ctx context.Context) (*Session, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	return am.passwordGrant(ctx)
}

// Session returns the current session without renewing it.
func (am *AuthManager) Session() *Session {
	am.mu.RLock()
	defer am.mu.RUnlock()

	return am.session
}

// ClearSession forgets the session, including the persisted copy.
func (am *AuthManager) ClearSession() {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.session = nil
	if err := am.cache.Delete(am.cacheKey()); err != nil {
		am.logger.Debug("Failed to delete cached session: %v", err)
	}
	am.logger.Debug("Session cleared")
}

// Logout revokes the refresh token on the server and clears the session.
func (am *AuthManager) Logout(ctx context.Context) error {
	session := am.Session()
	if session == nil {
		var cached Session
		if found, err := am.cache.Get(am.cacheKey(), &cached); err == nil && found {
			session = &cached
		}
	}

	if session != nil && session.AccessToken != "" {
		err := am.httpClient.postWithBearer(ctx, EndpointLogout, session.AccessToken)
		if err != nil && !errors.Is(err, ErrNotAuthenticated) {
			return fmt.Errorf("failed to log out: %w", err)
		}
	}

	am.ClearSession()

	return nil
}

func (am *AuthManager) renew(ctx context.Context) (*Session, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	// Double-check after acquiring write lock
	if am.session.IsValid() {
		return am.session, nil
	}

	if am.session == nil {
		var cached Session
		found, err := am.cache.Get(am.cacheKey(), &cached)
		if err != nil {
			am.logger.Debug("Failed to read cached session: %v", err)
		} else if found {
			am.logger.Debug("Loaded cached session for %s", am.email)
			am.session = &cached
			if cached.IsValid() {
				return am.session, nil
			}
		}
	}

	if am.session != nil && am.session.RefreshToken != "" {
		session, err := am.refreshGrant(ctx, am.session.RefreshToken)
		if err == nil {
			return session, nil
		}
		am.logger.Debug("Refreshing session failed: %v", err)
	}

	if am.password == "" {
		am.session = nil
		return nil, fmt.Errorf("no password configured for %s: %w", am.email, ErrNotAuthenticated)
	}

	return am.passwordGrant(ctx)
}

// passwordGrant must be called with mu held.
func (am *AuthManager) passwordGrant(ctx context.Context) (*Session, error) {
	am.logger.Debug("Signing in as %s", am.email)

	body := map[string]string{
		"email":    am.email,
		"password": am.password,
	}

	return am.tokenRequest(ctx, "password", body)
}

// refreshGrant must be called with mu held.
func (am *AuthManager) refreshGrant(ctx context.Context, refreshToken string) (*Session, error) {
	am.logger.Debug("Refreshing session for %s", am.email)

	return am.tokenRequest(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (am *AuthManager) tokenRequest(ctx context.Context, grant string, body map[string]string) (*Session, error) {
	var resp tokenResponse

	query := url.Values{"grant_type": {grant}}
	if err := am.httpClient.Post(ctx, EndpointToken, query, body, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return nil, fmt.Errorf("sign in failed: %s: %w", apiErr.Message, ErrNotAuthenticated)
		}

		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("sign in failed: no access token received: %w", ErrNotAuthenticated)
	}

	am.session = resp.session()
	if err := am.cache.Set(am.cacheKey(), am.session, 0); err != nil {
		am.logger.Debug("Failed to cache session: %v", err)
	}

	am.logger.Debug("Signed in as %s", am.session.User.Email)

	return am.session, nil
}

func (am *AuthManager) cacheKey() string {
	return sessionCacheKeyPrefix + am.email
}
