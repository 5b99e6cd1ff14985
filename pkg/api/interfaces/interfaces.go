// Package interfaces defines the abstractions shared by the lynva API client
// and the application: logging, caching and connection configuration.
//
// Keeping them in a leaf package lets the client be used and tested without
// pulling in the concrete zap logger or badger cache.
package interfaces

import "time"

// Logger is a printf-style leveled logger.
//
// Implementations must be safe for concurrent use.
//
//	logger.Debug("Fetching %s for business %s", table, businessID)
//	logger.Error("Realtime connection lost: %v", err)
type Logger interface {
	// Debug logs messages only shown when debug logging is enabled.
	Debug(format string, args ...interface{})

	// Info logs messages about normal application flow.
	Info(format string, args ...interface{})

	// Error logs conditions that should be investigated.
	Error(format string, args ...interface{})
}

// Cache is a key-value cache with per-entry TTL.
//
// Values are stored as JSON, so dest in Get must be a pointer to a type the
// stored value can be unmarshaled into.
//
//	_ = cache.Set("records:bookings:biz-1", bookings, 5*time.Minute)
//
//	var bookings []api.Booking
//	found, err := cache.Get("records:bookings:biz-1", &bookings)
type Cache interface {
	// Get unmarshals the value stored under key into dest. It reports false
	// when the key is missing or expired.
	Get(key string, dest interface{}) (bool, error)

	// Set stores value under key. A ttl of 0 never expires.
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes key.
	Delete(key string) error

	// Clear removes every entry.
	Clear() error
}

// Config is the connection configuration the API client needs.
type Config interface {
	// GetURL returns the project URL, e.g. "https://abc.supabase.co".
	GetURL() string

	// GetAnonKey returns the public anon key sent in the apikey header.
	GetAnonKey() string

	// GetEmail returns the account email used for the password grant.
	GetEmail() string

	// GetPassword returns the account password.
	GetPassword() string

	// GetInsecure reports whether TLS verification is skipped.
	GetInsecure() bool
}

// NoOpLogger discards all messages.
type NoOpLogger struct{}

// Debug discards the debug message.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info discards the info message.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Error discards the error message.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// NoOpCache stores nothing. Get always misses.
type NoOpCache struct{}

// Get always returns false (not found) and no error.
func (n *NoOpCache) Get(key string, dest interface{}) (bool, error) { return false, nil }

// Set always succeeds without storing anything.
func (n *NoOpCache) Set(key string, value interface{}, ttl time.Duration) error { return nil }

// Delete always succeeds.
func (n *NoOpCache) Delete(key string) error { return nil }

// Clear always succeeds.
func (n *NoOpCache) Clear() error { return nil }
