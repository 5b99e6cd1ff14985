package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lynva/lynva-tui/pkg/api/testutils"
)

// Test constants for repeated strings.
const (
	testAnonKey    = "test-anon-key"
	testEmail      = "owner@example.com"
	testPassword   = "testpass"
	testUserID     = "user-1"
	testBusinessID = "biz-1"
	testToken      = "access-1"
)

// fakeBackend is a minimal auth + REST server for client tests.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	records    map[string][]map[string]interface{}
	businessID string
	token      string

	tokenCalls  atomic.Int32
	listCalls   atomic.Int32
	failNext    atomic.Int32
	lastGrant   atomic.Value
	lastQueries []string

	// realtime serves the websocket endpoint when set.
	realtime http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{
		t:          t,
		businessID: testBusinessID,
		token:      testToken,
		records:    map[string][]map[string]interface{}{},
	}
	fb.server = httptest.NewServer(http.HandlerFunc(fb.handle))
	t.Cleanup(fb.server.Close)

	return fb
}

func (fb *fakeBackend) setRecords(table string, rows ...map[string]interface{}) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.records[table] = rows
}

func (fb *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == EndpointRealtime && fb.realtime != nil {
		fb.realtime(w, r)
		return
	}

	assert.Equal(fb.t, testAnonKey, r.Header.Get("apikey"))
	w.Header().Set("Content-Type", "application/json")

	if n := fb.failNext.Load(); n > 0 {
		fb.failNext.Add(-1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"try again"}`))
		return
	}

	switch {
	case r.URL.Path == EndpointToken:
		fb.tokenCalls.Add(1)
		fb.lastGrant.Store(r.URL.Query().Get("grant_type"))

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Query().Get("grant_type") == "password" && body["password"] != testPassword {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}

		fb.mu.Lock()
		token := fb.token
		fb.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  token,
			"refresh_token": "refresh-1",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]interface{}{"id": testUserID, "email": testEmail},
		})
		return
	}

	if !fb.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
		return
	}

	switch {
	case r.URL.Path == EndpointUser:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": testUserID, "email": testEmail})

	case r.URL.Path == EndpointLogout:
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == EndpointRest+TableUsers:
		fb.mu.Lock()
		id := fb.businessID
		fb.mu.Unlock()
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"business_id": id}})

	case strings.HasPrefix(r.URL.Path, EndpointRest):
		fb.listCalls.Add(1)
		table := strings.TrimPrefix(r.URL.Path, EndpointRest)

		fb.mu.Lock()
		fb.lastQueries = append(fb.lastQueries, r.URL.RawQuery)
		rows := fb.records[table]
		fb.mu.Unlock()

		if rows == nil {
			rows = []map[string]interface{}{}
		}
		_ = json.NewEncoder(w).Encode(rows)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fb *fakeBackend) authorized(r *http.Request) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return r.Header.Get("Authorization") == "Bearer "+fb.token
}

func (fb *fakeBackend) config() *testutils.TestConfig {
	return testutils.NewTestConfig(fb.server.URL)
}
