package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynva/lynva-tui/pkg/api/testutils"
)

func newTestClient(t *testing.T, fb *fakeBackend, opts ...ClientOption) *Client {
	t.Helper()

	opts = append([]ClientOption{
		WithHTTPClient(fb.server.Client()),
		WithLogger(testutils.NewTestLogger()),
	}, opts...)

	client, err := NewClient(fb.config(), opts...)
	require.NoError(t, err)

	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *testutils.TestConfig
		errMsg string
	}{
		{"missing url", &testutils.TestConfig{AnonKey: "k", Email: "e"}, "project URL"},
		{"missing anon key", &testutils.TestConfig{URL: "https://x.supabase.co", Email: "e"}, "anon key"},
		{"missing email", &testutils.TestConfig{URL: "https://x.supabase.co", AnonKey: "k"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewClient_NormalizesURL(t *testing.T) {
	client, err := NewClient(&testutils.TestConfig{URL: "abc.supabase.co/", AnonKey: "k", Email: "e"})
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", client.BaseURL())
}

func TestClient_CheckSession(t *testing.T) {
	fb := newFakeBackend(t)
	client := newTestClient(t, fb)

	user, err := client.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testUserID, user.ID)
}

func TestClient_CheckSessionRejectedToken(t *testing.T) {
	fb := newFakeBackend(t)
	client := newTestClient(t, fb)

	_, err := client.Login(context.Background())
	require.NoError(t, err)

	// The server rotates its secret; the held token is no longer accepted.
	fb.mu.Lock()
	fb.token = "rotated"
	fb.mu.Unlock()

	_, err = client.CheckSession(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Nil(t, client.authManager.Session())
}

func TestClient_BusinessID(t *testing.T) {
	fb := newFakeBackend(t)
	client := newTestClient(t, fb)

	id, err := client.BusinessID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testBusinessID, id)
}

func TestClient_NoBusiness(t *testing.T) {
	fb := newFakeBackend(t)
	fb.businessID = ""
	client := newTestClient(t, fb)

	_, err := client.ListBookings(context.Background())
	require.ErrorIs(t, err, ErrNoBusiness)
}

func TestClient_ListBookingsUsesCache(t *testing.T) {
	fb := newFakeBackend(t)
	fb.setRecords(TableBookings,
		map[string]interface{}{"id": "b1", "customer_name": "Ana", "status": "confirmed", "total_amount": 50},
		map[string]interface{}{"id": "b2", "customer_name": "Ben", "status": "pending"},
	)

	cache := testutils.NewInMemoryCache()
	client := newTestClient(t, fb, WithCache(cache))

	bookings, err := client.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Ana", bookings[0].CustomerName)
	assert.InDelta(t, 50.0, bookings[0].Amount(), 0.001)
	assert.Zero(t, bookings[1].Amount())

	_, err = client.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fb.listCalls.Load())

	client.InvalidateTable(TableBookings)
	_, err = client.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), fb.listCalls.Load())

	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.Contains(t, fb.lastQueries[0], "business_id=eq.biz-1")
	assert.Contains(t, fb.lastQueries[0], "order=appointment_date.desc")
}

func TestClient_ListEmptyTableReturnsEmptySlice(t *testing.T) {
	fb := newFakeBackend(t)
	client := newTestClient(t, fb)

	faqs, err := client.ListFAQs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, faqs)
	assert.Empty(t, faqs)
}

func TestClient_ListRetriesTransientFailure(t *testing.T) {
	fb := newFakeBackend(t)
	fb.setRecords(TableServices, map[string]interface{}{"id": "s1", "name": "Consultation", "price": 120})
	client := newTestClient(t, fb)

	_, err := client.BusinessID(context.Background())
	require.NoError(t, err)

	fb.failNext.Store(1)
	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.InDelta(t, 120.0, services[0].PriceValue(), 0.001)
}

func TestClient_Logout(t *testing.T) {
	fb := newFakeBackend(t)
	client := newTestClient(t, fb)

	_, err := client.Login(context.Background())
	require.NoError(t, err)
	require.NoError(t, client.Logout(context.Background()))
	assert.Nil(t, client.authManager.Session())
}

func TestClient_DefaultHTTPClientTimeout(t *testing.T) {
	client, err := NewClient(testutils.NewTestConfig("https://abc.supabase.co"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, client.httpClient.client.Timeout)
	_, ok := client.httpClient.client.Transport.(*http.Transport)
	assert.True(t, ok)
}
