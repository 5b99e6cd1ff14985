package testutils

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, dest interface{}) (bool, error) {
	args := m.Called(key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value interface{}, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCache) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// TestConfig is a simple test implementation of the Config interface
type TestConfig struct {
	URL      string
	AnonKey  string
	Email    string
	Password string
	Insecure bool
}

func (c *TestConfig) GetURL() string      { return c.URL }
func (c *TestConfig) GetAnonKey() string  { return c.AnonKey }
func (c *TestConfig) GetEmail() string    { return c.Email }
func (c *TestConfig) GetPassword() string { return c.Password }
func (c *TestConfig) GetInsecure() bool   { return c.Insecure }

// NewTestConfig creates a test configuration pointing at url.
func NewTestConfig(url string) *TestConfig {
	return &TestConfig{
		URL:      url,
		AnonKey:  "test-anon-key",
		Email:    "owner@example.com",
		Password: "testpass",
	}
}

// TestLogger is a simple test logger that captures log messages
type TestLogger struct {
	mu            sync.Mutex
	DebugMessages []string
	InfoMessages  []string
	ErrorMessages []string
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DebugMessages = append(l.DebugMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoMessages = append(l.InfoMessages, fmt.Sprintf(format, args...))
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ErrorMessages = append(l.ErrorMessages, fmt.Sprintf(format, args...))
}

// Messages returns a copy of the messages logged at level.
func (l *TestLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch level {
	case "debug":
		return append([]string(nil), l.DebugMessages...)
	case "info":
		return append([]string(nil), l.InfoMessages...)
	case "error":
		return append([]string(nil), l.ErrorMessages...)
	}

	return nil
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// InMemoryCache is a JSON round-tripping cache for tests. TTLs are ignored.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *InMemoryCache) Get(key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, exists := c.data[key]
	c.mu.Unlock()

	if !exists {
		return false, nil
	}

	return true, json.Unmarshal(raw, dest)
}

func (c *InMemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw

	return nil
}

func (c *InMemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)

	return nil
}

func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)

	return nil
}

// Has reports whether key is stored.
func (c *InMemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]

	return ok
}

// NewInMemoryCache creates a new in-memory cache for testing
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string][]byte),
	}
}

// AssertLogContains checks if a log message contains the expected text
func AssertLogContains(t *testing.T, logger *TestLogger, level string, expectedText string) {
	t.Helper()

	messages := logger.Messages(level)
	for _, msg := range messages {
		if strings.Contains(msg, expectedText) {
			return
		}
	}

	t.Errorf("Expected %s log to contain '%s', but it was not found. Messages: %v", level, expectedText, messages)
}
