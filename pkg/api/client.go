package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// Default server-side order per table. Views re-sort in memory anyway; this
// only fixes the natural order records arrive in.
var defaultOrder = map[string]string{
	TableBookings: "appointment_date.desc",
	TableServices: "name.asc",
	TableFAQs:     "created_at.desc",
	TableCallLogs: "created_at.desc",
}

// Client talks to the backend REST and auth APIs on behalf of one user and
// caches whole record sets per table.
type Client struct {
	httpClient  *HTTPClient
	authManager *AuthManager

	// Dependencies
	logger interfaces.Logger
	cache  interfaces.Cache

	baseURL    string
	anonKey    string
	recordsTTL time.Duration

	mu         sync.Mutex
	businessID string
}

// NewClient creates a client from config. It does not contact the server.
func NewClient(config interfaces.Config, options ...ClientOption) (*Client, error) {
	opts := defaultOptions()
	for _, option := range options {
		option(opts)
	}

	if config.GetURL() == "" {
		return nil, fmt.Errorf("project URL cannot be empty")
	}
	if config.GetAnonKey() == "" {
		return nil, fmt.Errorf("anon key cannot be empty")
	}
	if config.GetEmail() == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	baseURL := strings.TrimRight(config.GetURL(), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid project URL %q: %w", baseURL, err)
	}

	opts.Logger.Debug("Project URL: %s", baseURL)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.GetInsecure()} //nolint:gosec // opt-in via config
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   DefaultTimeout,
		}
	}

	authHTTP := NewHTTPClient(httpClient, baseURL, config.GetAnonKey(), opts.Logger)
	authManager := NewAuthManager(authHTTP, config.GetEmail(), config.GetPassword(), opts.Logger, opts.Cache)

	restHTTP := NewHTTPClient(httpClient, baseURL, config.GetAnonKey(), opts.Logger)
	restHTTP.SetAuthManager(authManager)

	return &Client{
		httpClient:  restHTTP,
		authManager: authManager,
		logger:      opts.Logger,
		cache:       opts.Cache,
		baseURL:     baseURL,
		anonKey:     config.GetAnonKey(),
		recordsTTL:  opts.RecordsTTL,
	}, nil
}

// BaseURL returns the normalized project URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login signs in with the configured password and persists the session.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	return c.authManager.Login(ctx)
}

// Logout revokes the session and drops cached data.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.businessID = ""
	c.mu.Unlock()

	c.ClearAPICache()

	return c.authManager.Logout(ctx)
}

// AccessToken returns a valid access token, renewing the session when needed.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	session, err := c.authManager.GetValidSession(ctx)
	if err != nil {
		return "", err
	}

	return session.AccessToken, nil
}

// CheckSession asks the auth server who the session belongs to. It returns
// ErrNotAuthenticated when there is no usable session.
func (c *Client) CheckSession(ctx context.Context) (*User, error) {
	var user User
	if err := c.httpClient.Get(ctx, EndpointUser, nil, &user); err != nil {
		return nil, fmt.Errorf("session check failed: %w", err)
	}

	if user.ID == "" {
		return nil, fmt.Errorf("session check returned no user: %w", ErrNotAuthenticated)
	}

	return &user, nil
}

// BusinessID resolves the business the signed-in user belongs to.
func (c *Client) BusinessID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.businessID
	c.mu.Unlock()

	if id != "" {
		return id, nil
	}

	session, err := c.authManager.GetValidSession(ctx)
	if err != nil {
		return "", err
	}

	var rows []struct {
		BusinessID string `json:"business_id"`
	}

	query := url.Values{
		"id":     {"eq." + session.User.ID},
		"select": {"business_id"},
	}
	if err := c.httpClient.GetWithRetry(ctx, EndpointRest+TableUsers, query, &rows, DefaultRetries); err != nil {
		return "", fmt.Errorf("failed to look up business: %w", err)
	}

	if len(rows) == 0 || rows[0].BusinessID == "" {
		return "", ErrNoBusiness
	}

	c.mu.Lock()
	c.businessID = rows[0].BusinessID
	c.mu.Unlock()

	c.logger.Debug("Resolved business %s for user %s", rows[0].BusinessID, session.User.ID)

	return rows[0].BusinessID, nil
}

// GetBusiness fetches the business profile.
func (c *Client) GetBusiness(ctx context.Context) (*Business, error) {
	id, err := c.BusinessID(ctx)
	if err != nil {
		return nil, err
	}

	var rows []Business
	query := url.Values{"id": {"eq." + id}}
	if err := c.httpClient.GetWithRetry(ctx, EndpointRest+TableBusinesses, query, &rows, DefaultRetries); err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrNoBusiness
	}

	return &rows[0], nil
}

// ListBookings returns every booking of the business.
func (c *Client) ListBookings(ctx context.Context) ([]Booking, error) {
	return listRecords[Booking](ctx, c, TableBookings)
}

// ListServices returns every service of the business.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	return listRecords[Service](ctx, c, TableServices)
}

// ListFAQs returns every FAQ of the business.
func (c *Client) ListFAQs(ctx context.Context) ([]FAQ, error) {
	return listRecords[FAQ](ctx, c, TableFAQs)
}

// ListCallLogs returns every call log of the business.
func (c *Client) ListCallLogs(ctx context.Context) ([]CallLog, error) {
	return listRecords[CallLog](ctx, c, TableCallLogs)
}

// InvalidateTable drops the cached record set of table so the next List refetches.
func (c *Client) InvalidateTable(table string) {
	c.mu.Lock()
	id := c.businessID
	c.mu.Unlock()

	if id == "" {
		return
	}

	if err := c.cache.Delete(recordsCacheKey(table, id)); err != nil {
		c.logger.Debug("Failed to invalidate %s: %v", table, err)
	} else {
		c.logger.Debug("Invalidated cached %s", table)
	}
}

// prefixDeleter is implemented by caches that can drop a key range.
type prefixDeleter interface {
	DeletePrefix(prefix string) error
}

// ClearAPICache removes all cached record sets. Caches that cannot delete by
// prefix are cleared entirely.
func (c *Client) ClearAPICache() {
	var err error
	if pd, ok := c.cache.(prefixDeleter); ok {
		err = pd.DeletePrefix(recordsCachePrefix)
	} else {
		err = c.cache.Clear()
	}

	if err != nil {
		c.logger.Debug("Failed to clear API cache: %v", err)
	} else {
		c.logger.Debug("API cache cleared successfully")
	}
}

func listRecords[T any](ctx context.Context, c *Client, table string) ([]T, error) {
	businessID, err := c.BusinessID(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := recordsCacheKey(table, businessID)

	var cached []T
	found, err := c.cache.Get(cacheKey, &cached)
	if err != nil {
		c.logger.Debug("Cache error for %s: %v", table, err)
	} else if found {
		c.logger.Debug("Cache hit for: %s", table)
		return cached, nil
	}

	c.logger.Debug("Cache miss for: %s", table)

	query := url.Values{
		"business_id": {"eq." + businessID},
		"select":      {"*"},
	}
	if order := defaultOrder[table]; order != "" {
		query.Set("order", order)
	}

	records := []T{}
	if err := c.httpClient.GetWithRetry(ctx, EndpointRest+table, query, &records, DefaultRetries); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	if err := c.cache.Set(cacheKey, records, c.recordsTTL); err != nil {
		c.logger.Debug("Failed to cache %s: %v", table, err)
	} else {
		c.logger.Debug("Cached %d %s with TTL %v", len(records), table, c.recordsTTL)
	}

	return records, nil
}

const recordsCachePrefix = "records:"

func recordsCacheKey(table, businessID string) string {
	return recordsCachePrefix + table + ":" + businessID
}
