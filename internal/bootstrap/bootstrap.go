// Package bootstrap turns command-line options into a validated Config and
// starts the application, translating startup failures into hints.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lynva/lynva-tui/internal/app"
	"github.com/lynva/lynva-tui/internal/config"
	"github.com/lynva/lynva-tui/internal/version"
	"github.com/lynva/lynva-tui/pkg/api"
)

// Options contains all the options for bootstrapping the application.
type Options struct {
	ConfigPath string
	NoCache    bool

	// Flag values for config overrides. Zero values leave the config alone.
	FlagURL      string
	FlagAnonKey  string
	FlagEmail    string
	FlagPassword string
	FlagInsecure bool
	FlagDebug    bool
	FlagCacheDir string
	FlagPageSize int
}

// Result contains the result of the bootstrap process.
type Result struct {
	Config     *config.Config
	ConfigPath string
	NoCache    bool
}

// Bootstrap loads and validates the configuration.
func Bootstrap(opts Options) (*Result, error) {
	cfg, configPath, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		if configPath == "" {
			return nil, fmt.Errorf("%w\nrun `%s config init` to create a config file", err, version.ProjectName)
		}

		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return &Result{
		Config:     cfg,
		ConfigPath: configPath,
		NoCache:    opts.NoCache,
	}, nil
}

// LoadConfig merges defaults, the config file, the environment and flags
// without validating the result.
func LoadConfig(opts Options) (*config.Config, string, error) {
	cfg := config.NewConfig()
	configPath := ResolveConfigPath(opts.ConfigPath)

	if configPath != "" {
		if err := cfg.MergeWithFile(configPath); err != nil {
			return nil, configPath, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, configPath, err
	}

	applyFlagsToConfig(cfg, opts)
	cfg.SetDefaults()

	return cfg, configPath, nil
}

// applyFlagsToConfig applies command line flags to the config object.
func applyFlagsToConfig(cfg *config.Config, opts Options) {
	if opts.FlagURL != "" {
		cfg.URL = opts.FlagURL
	}
	if opts.FlagAnonKey != "" {
		cfg.AnonKey = opts.FlagAnonKey
	}
	if opts.FlagEmail != "" {
		cfg.Email = opts.FlagEmail
	}
	if opts.FlagPassword != "" {
		cfg.Password = opts.FlagPassword
	}
	if opts.FlagInsecure {
		cfg.Insecure = true
	}
	if opts.FlagDebug {
		cfg.Debug = true
	}
	if opts.FlagCacheDir != "" {
		cfg.CacheDir = opts.FlagCacheDir
	}
	if opts.FlagPageSize != 0 {
		cfg.PageSize = opts.FlagPageSize
	}
}

// StartApplication runs the TUI with the bootstrapped configuration.
func StartApplication(ctx context.Context, result *Result, out io.Writer) error {
	if result == nil {
		return errors.New("bootstrap result is nil")
	}

	fmt.Fprintf(out, "🚀 Starting %s...\n", version.ProjectName)

	if result.ConfigPath != "" {
		fmt.Fprintf(out, "✅ Configuration loaded from %s\n", result.ConfigPath)
	} else {
		fmt.Fprintln(out, "✅ Configuration loaded from environment variables")
	}

	if err := app.Run(ctx, result.Config, app.Options{NoCache: result.NoCache}); err != nil {
		return handleStartupError(out, err, result.Config)
	}

	fmt.Fprintln(out, "🚪 Exiting.")

	return nil
}

// ResolveConfigPath returns the flag path or, without one, the first default
// config file that exists.
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	if path, found := config.FindDefaultConfigPath(); found {
		return path
	}

	return ""
}

// ResolveConfigPathForInit returns where `config init` and `login` write to.
func ResolveConfigPathForInit(flagPath string) string {
	if path := ResolveConfigPath(flagPath); path != "" {
		return path
	}

	return config.GetDefaultConfigPath()
}

// StartupHint returns advice for a startup error, or "" when there is none.
func StartupHint(err error, cfg *config.Config) string {
	var apiErr *api.APIError

	switch {
	case errors.Is(err, api.ErrNotAuthenticated):
		return fmt.Sprintf("💡 Run `%s login` to sign in as %s.", version.ProjectName, cfg.Email)
	case errors.Is(err, api.ErrNoBusiness):
		return "💡 Finish onboarding in the web dashboard to create your business first."
	case errors.As(err, &apiErr) && apiErr.StatusCode == 401:
		return "💡 The server rejected the anon key. Check anon_key in:\n   " + configLocation(cfg)
	case strings.Contains(err.Error(), "connection") || strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "no such host"):
		return "💡 Please check the project URL and your network connectivity:\n   Current URL: " + cfg.URL
	}

	return ""
}

func configLocation(cfg *config.Config) string {
	if cfg.Path() != "" {
		return cfg.Path()
	}

	return config.GetDefaultConfigPath()
}

// handleStartupError prints the error with a hint and returns it.
func handleStartupError(out io.Writer, err error, cfg *config.Config) error {
	fmt.Fprintf(out, "❌ %v\n", err)

	if hint := StartupHint(err, cfg); hint != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, hint)
	}

	return err
}
