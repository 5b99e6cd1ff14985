package api

import (
	"net/http"
	"time"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// ClientOptions holds optional dependencies for the API client.
type ClientOptions struct {
	Logger     interfaces.Logger
	Cache      interfaces.Cache
	HTTPClient *http.Client
	RecordsTTL time.Duration
}

// ClientOption is a function that configures ClientOptions.
type ClientOption func(*ClientOptions)

// WithLogger sets a custom logger for the client.
func WithLogger(logger interfaces.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithCache sets the cache used for record sets and the session.
func WithCache(cache interfaces.Cache) ClientOption {
	return func(opts *ClientOptions) {
		opts.Cache = cache
	}
}

// WithHTTPClient replaces the underlying http.Client, mainly for tests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithRecordsTTL sets how long fetched record sets stay cached.
func WithRecordsTTL(ttl time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.RecordsTTL = ttl
	}
}

// defaultOptions returns ClientOptions with sensible defaults.
func defaultOptions() *ClientOptions {
	return &ClientOptions{
		Logger:     &interfaces.NoOpLogger{},
		Cache:      &interfaces.NoOpCache{},
		RecordsTTL: DefaultRecordsTTL,
	}
}
