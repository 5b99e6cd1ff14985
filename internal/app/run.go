// Package app assembles the logger, cache and API client from a loaded
// config and starts the TUI. The CLI subcommands reuse the same assembly.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lynva/lynva-tui/internal/cache"
	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/logger"
	"github.com/lynva/lynva-tui/internal/ui"
	"github.com/lynva/lynva-tui/pkg/api"
)

// Options configures Open and Run.
type Options struct {
	// NoCache keeps records and the session in memory only.
	NoCache bool
}

// Env is everything a command needs to talk to the backend.
type Env struct {
	Config *config.Config
	Logger *logger.Logger
	Cache  cache.Cache
	Client *api.Client
}

// Open builds the logger, cache and client for cfg.
func Open(cfg *config.Config, opts Options) (*Env, error) {
	level := logger.LevelInfo
	if cfg.Debug {
		level = logger.LevelDebug
	}

	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	log, err := logger.NewInternalLogger(level, cfg.CacheDir)
	if err != nil {
		log = logger.NewSimpleLogger(level)
		log.Error("Failed to open log file: %v", err)
	}

	var store cache.Cache
	if opts.NoCache || cfg.CacheDir == "" {
		store = cache.NewMemoryCache(cache.DefaultMemoryEntries)
	} else {
		store, err = cache.Open(cfg.CacheDir, log)
		if err != nil {
			// Open still returns a usable in-memory cache.
			log.Error("Persistent cache unavailable, using memory: %v", err)
		}
	}

	client, err := api.NewClient(cfg,
		api.WithLogger(log),
		api.WithCache(store),
		api.WithRecordsTTL(cfg.CacheTTL),
	)
	if err != nil {
		_ = store.Close()
		_ = log.Close()

		return nil, err
	}

	return &Env{Config: cfg, Logger: log, Cache: store, Client: client}, nil
}

// Close releases the cache and flushes the log.
func (e *Env) Close() error {
	return errors.Join(e.Cache.Close(), e.Logger.Close())
}

// EnsureSession verifies that the client can act as the configured user.
func (e *Env) EnsureSession(ctx context.Context) (*api.User, error) {
	user, err := e.Client.CheckSession(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNotAuthenticated) {
			return nil, fmt.Errorf("%w; run `lynva-tui login` or set a password", err)
		}

		return nil, err
	}

	e.Logger.Info("Signed in as %s", user.Email)

	return user, nil
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	env, err := Open(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", cerr)
		}
	}()

	if _, err := env.EnsureSession(ctx); err != nil {
		return err
	}

	return ui.RunApp(ctx, env.Client, cfg, env.Logger)
}
