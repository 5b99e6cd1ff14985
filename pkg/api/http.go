package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// HTTPClient sends REST requests with the project key and the session token.
type HTTPClient struct {
	client      *http.Client
	authManager *AuthManager
	baseURL     string
	anonKey     string
	logger      interfaces.Logger
}

// NewHTTPClient creates a new REST client rooted at baseURL.
func NewHTTPClient(httpClient *http.Client, baseURL, anonKey string, logger interfaces.Logger) *HTTPClient {
	return &HTTPClient{
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		logger:  logger,
	}
}

// SetAuthManager sets the manager that supplies the bearer token.
func (hc *HTTPClient) SetAuthManager(authManager *AuthManager) {
	hc.authManager = authManager
}

// Get performs a GET request.
func (hc *HTTPClient) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return hc.doRequest(ctx, HTTPMethodGET, path, query, nil, result)
}

// GetWithRetry performs a GET request, retrying transient failures.
func (hc *HTTPClient) GetWithRetry(ctx context.Context, path string, query url.Values, result interface{}, maxRetries int) error {
	return hc.doRequestWithRetry(ctx, HTTPMethodGET, path, query, nil, result, maxRetries)
}

// Post performs a POST request.
func (hc *HTTPClient) Post(ctx context.Context, path string, query url.Values, data, result interface{}) error {
	return hc.doRequest(ctx, HTTPMethodPOST, path, query, data, result)
}

// Patch performs a PATCH request.
func (hc *HTTPClient) Patch(ctx context.Context, path string, query url.Values, data, result interface{}) error {
	return hc.doRequest(ctx, HTTPMethodPATCH, path, query, data, result)
}

// Delete performs a DELETE request.
func (hc *HTTPClient) Delete(ctx context.Context, path string, query url.Values) error {
	return hc.doRequest(ctx, HTTPMethodDELETE, path, query, nil, nil)
}

// postWithBearer sends an empty POST authorized with token.
func (hc *HTTPClient) postWithBearer(ctx context.Context, path, token string) error {
	return hc.executeRequest(ctx, HTTPMethodPOST, path, nil, nil, nil, token)
}

func (hc *HTTPClient) doRequest(ctx context.Context, method, path string, query url.Values, data, result interface{}) error {
	return hc.doRequestWithRetry(ctx, method, path, query, data, result, 1)
}

func (hc *HTTPClient) doRequestWithRetry(ctx context.Context, method, path string, query url.Values, data, result interface{}, maxRetries int) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			// Exponential backoff
			backoff := time.Duration(1<<(attempt-2)) * 500 * time.Millisecond
			hc.logger.Debug("Retrying request after %v (attempt %d/%d)", backoff, attempt, maxRetries)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := hc.executeRequest(ctx, method, path, query, data, result, "")
		if err == nil {
			return nil
		}

		lastErr = err

		if !hc.shouldRetry(err, attempt, maxRetries) {
			break
		}

		hc.logger.Debug("Request failed, will retry: %v", err)
	}

	if maxRetries <= 1 {
		return lastErr
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

// executeRequest sends one request. A non-empty bearer overrides the managed session.
func (hc *HTTPClient) executeRequest(ctx context.Context, method, path string, query url.Values, data, result interface{}, bearer string) error {
	fullURL := hc.baseURL + path
	if !strings.HasPrefix(path, "/") {
		fullURL = hc.baseURL + "/" + path
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", hc.anonKey)

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else if hc.authManager != nil {
		session, err := hc.authManager.GetValidSession(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
		if result != nil {
			req.Header.Set("Prefer", "return=representation")
		}
	}

	hc.logger.Debug("API %s: %s", method, path)

	resp, err := hc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		hc.logger.Debug("Access token rejected, clearing session")
		if hc.authManager != nil {
			hc.authManager.ClearSession()
		}

		return fmt.Errorf("%s %s: %w", method, path, ErrNotAuthenticated)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response JSON: %w", err)
		}
	}

	return nil
}

// shouldRetry retries server errors and network failures, never auth or client errors.
func (hc *HTTPClient) shouldRetry(err error, attempt, maxRetries int) bool {
	if attempt >= maxRetries {
		return false
	}

	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return strings.Contains(err.Error(), "connection")
}

// errorMessage extracts the human readable part of a PostgREST or GoTrue error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.ErrorDescription, payload.Error} {
			if m != "" {
				return m
			}
		}
	}

	return strings.TrimSpace(string(body))
}
