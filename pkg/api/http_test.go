package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/pkg/api/testutils"
)

func TestHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/rest/v1/faqs", r.URL.Path)
		assert.Equal(t, "eq.biz-1", r.URL.Query().Get("business_id"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, testAnonKey, r.Header.Get("apikey"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"id": "faq-1", "question": "Hours?"}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	var result []FAQ
	err := client.Get(context.Background(), "/rest/v1/faqs", url.Values{"business_id": {"eq.biz-1"}}, &result)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Hours?", result[0].Question)
}

func TestHTTPClient_Post_SendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "value", body["key"])

		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	var result map[string]string
	err := client.Post(context.Background(), "echo", nil, map[string]string{"key": "value"}, &result)

	require.NoError(t, err)
	assert.Equal(t, "yes", result["ok"])
}

func TestHTTPClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"column does not exist"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	err := client.Get(context.Background(), "/rest/v1/bookings", nil, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "column does not exist", apiErr.Message)
	assert.False(t, apiErr.Temporary())
}

func TestHTTPClient_UnauthorizedIsNotAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	err := client.GetWithRetry(context.Background(), "/rest/v1/bookings", nil, nil, 3)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	logger := testutils.NewTestLogger()
	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, logger)

	var result []Booking
	err := client.GetWithRetry(context.Background(), "/rest/v1/bookings", nil, &result, 3)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, result)
	testutils.AssertLogContains(t, logger, "debug", "will retry")
}

func TestHTTPClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	err := client.GetWithRetry(context.Background(), "/rest/v1/nope", nil, nil, 3)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_RetryStopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL, testAnonKey, testutils.NewTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := client.GetWithRetry(ctx, "/rest/v1/bookings", nil, nil, 5)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad", errorMessage([]byte(`{"message":"bad"}`)))
	assert.Equal(t, "Invalid login credentials", errorMessage([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte(" plain text\n")))
}
