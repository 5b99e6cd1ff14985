// Package config loads the lynva-tui configuration.
//
// Sources, highest priority first:
//  1. Command-line flags (bound by the cli package through viper)
//  2. Environment variables (LYNVA_*)
//  3. The YAML configuration file, optionally SOPS-encrypted
//  4. Defaults
//
// Environment variables:
//   - LYNVA_URL: project URL, e.g. https://abc.supabase.co
//   - LYNVA_ANON_KEY: public anon key sent as the apikey header
//   - LYNVA_EMAIL: account email
//   - LYNVA_PASSWORD: account password (optional once a session is cached)
//   - LYNVA_INSECURE: skip TLS verification ("true"/"false")
//   - LYNVA_DEBUG: enable debug logging
//   - LYNVA_CACHE_DIR: cache directory (logs, badger database)
//   - LYNVA_AGE_DIR: directory holding the age identity
//   - LYNVA_PAGE_SIZE: default rows per page
//   - LYNVA_CACHE_TTL: record cache lifetime, e.g. "5m"
//   - LYNVA_REALTIME: subscribe to live changes ("true"/"false")
//
// Configuration file format:
//
//	url: "https://abc.supabase.co"
//	anon_key: "eyJhbGciOi..."
//	email: "owner@example.com"
//	password: "age1:..."   # encrypted automatically after the first login
//	page_size: 25
//	cache_ttl: 5m
//	realtime: true
//	theme:
//	  name: default
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/getsops/sops/v3/decrypt"
	"gopkg.in/yaml.v3"

	"github.com/lynva/lynva-tui/internal/keys"
	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

const (
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "LYNVA"

	MaxPageSize     = 100
	DefaultCacheTTL = 5 * time.Minute

	trueString = "true"
)

// Config is the complete application configuration.
type Config struct {
	URL      string `yaml:"url"`
	AnonKey  string `yaml:"anon_key"`
	Email    string `yaml:"email"`
	Password string `yaml:"password,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`

	Debug    bool   `yaml:"debug,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`
	AgeDir   string `yaml:"age_dir,omitempty"`

	PageSize int           `yaml:"page_size,omitempty"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Realtime bool          `yaml:"realtime"`

	KeyBindings KeyBindings `yaml:"key_bindings"`
	Theme       ThemeConfig `yaml:"theme"`

	// path of the file the config was loaded from, if any.
	path string
	// sopsEncrypted is true when the loaded file was SOPS-encrypted.
	sopsEncrypted bool
}

// KeyBindings maps TUI actions to key specs understood by the keys package.
type KeyBindings struct {
	NextTable    string `yaml:"next_table"`
	PrevTable    string `yaml:"prev_table"`
	Search       string `yaml:"search"`
	Filters      string `yaml:"filters"`
	ClearFilters string `yaml:"clear_filters"`
	Sort         string `yaml:"sort"`
	NextPage     string `yaml:"next_page"`
	PrevPage     string `yaml:"prev_page"`
	FirstPage    string `yaml:"first_page"`
	LastPage     string `yaml:"last_page"`
	GoToPage     string `yaml:"goto_page"`
	PageSize     string `yaml:"page_size"`
	Reset        string `yaml:"reset"`
	Refresh      string `yaml:"refresh"`
	Help         string `yaml:"help"`
	Quit         string `yaml:"quit"`
}

// ThemeConfig selects a built-in theme and optional color overrides.
type ThemeConfig struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors,omitempty"`
}

// DefaultKeyBindings returns the default key mappings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		NextTable:    "]",
		PrevTable:    "[",
		Search:       "/",
		Filters:      "f",
		ClearFilters: "x",
		Sort:         "s",
		NextPage:     "n",
		PrevPage:     "p",
		FirstPage:    "Home",
		LastPage:     "End",
		GoToPage:     "g",
		PageSize:     "z",
		Reset:        "r",
		Refresh:      "Ctrl+R",
		Help:         "?",
		Quit:         "q",
	}
}

// withDefaults fills unset bindings from DefaultKeyBindings.
func (kb KeyBindings) withDefaults() KeyBindings {
	out := kb
	def := DefaultKeyBindings()
	defaults := def.pointers()

	for name, ptr := range out.pointers() {
		if *ptr == "" {
			*ptr = *defaults[name]
		}
	}

	return out
}

func (kb *KeyBindings) pointers() map[string]*string {
	return map[string]*string{
		"next_table":    &kb.NextTable,
		"prev_table":    &kb.PrevTable,
		"search":        &kb.Search,
		"filters":       &kb.Filters,
		"clear_filters": &kb.ClearFilters,
		"sort":          &kb.Sort,
		"next_page":     &kb.NextPage,
		"prev_page":     &kb.PrevPage,
		"first_page":    &kb.FirstPage,
		"last_page":     &kb.LastPage,
		"goto_page":     &kb.GoToPage,
		"page_size":     &kb.PageSize,
		"reset":         &kb.Reset,
		"refresh":       &kb.Refresh,
		"help":          &kb.Help,
		"quit":          &kb.Quit,
	}
}

// ValidateKeyBindings checks that every binding parses, that none uses a
// reserved navigation key, and that no two actions share a key.
func ValidateKeyBindings(kb KeyBindings) error {
	def := DefaultKeyBindings()
	defaults := def.pointers()
	seen := make(map[string]string)

	for name, spec := range kb.pointers() {
		if *spec == "" {
			continue
		}

		key, r, mod, err := keys.Parse(*spec)
		if err != nil {
			return fmt.Errorf("invalid key binding %s: %w", name, err)
		}

		if keys.IsReserved(key, r, mod) && *spec != *defaults[name] {
			return fmt.Errorf("key binding %s uses reserved key %s", name, *spec)
		}

		id := keys.CanonicalID(key, r, mod)
		if other, ok := seen[id]; ok {
			return fmt.Errorf("key binding %s duplicates %s", name, other)
		}

		seen[id] = name
	}

	return nil
}

// NewConfig returns a Config with defaults applied and nothing else set.
func NewConfig() *Config {
	return &Config{
		CacheTTL:    DefaultCacheTTL,
		Realtime:    true,
		KeyBindings: DefaultKeyBindings(),
		Theme:       ThemeConfig{Name: "default"},
	}
}

// Load builds a Config from defaults, the file at path (if non-empty) and
// the environment, then fills remaining defaults.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.MergeWithFile(path); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.SetDefaults()

	return cfg, nil
}

// fileConfig uses pointers to tell unset values from explicit zero values.
type fileConfig struct {
	URL         string         `yaml:"url"`
	AnonKey     string         `yaml:"anon_key"`
	Email       string         `yaml:"email"`
	Password    string         `yaml:"password"`
	Insecure    *bool          `yaml:"insecure"`
	Debug       *bool          `yaml:"debug"`
	CacheDir    string         `yaml:"cache_dir"`
	AgeDir      string         `yaml:"age_dir"`
	PageSize    *int           `yaml:"page_size"`
	CacheTTL    *time.Duration `yaml:"cache_ttl"`
	Realtime    *bool          `yaml:"realtime"`
	KeyBindings KeyBindings    `yaml:"key_bindings"`
	Theme       ThemeConfig    `yaml:"theme"`
}

// MergeWithFile overlays values set in the YAML file at path. SOPS-encrypted
// files are decrypted first. An empty path is a no-op.
func (c *Config) MergeWithFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c.path = path
	c.sopsEncrypted = IsSOPSEncrypted(data)

	if c.sopsEncrypted {
		data, err = decrypt.File(path, "yaml")
		if err != nil {
			return fmt.Errorf("sops decrypt: %w", err)
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setString(&c.URL, fc.URL)
	setString(&c.AnonKey, fc.AnonKey)
	setString(&c.Email, fc.Email)
	setString(&c.Password, fc.Password)
	setString(&c.CacheDir, ExpandHomePath(fc.CacheDir))
	setString(&c.AgeDir, ExpandHomePath(fc.AgeDir))

	if fc.Insecure != nil {
		c.Insecure = *fc.Insecure
	}

	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}

	if fc.PageSize != nil {
		c.PageSize = *fc.PageSize
	}

	if fc.CacheTTL != nil {
		c.CacheTTL = *fc.CacheTTL
	}

	if fc.Realtime != nil {
		c.Realtime = *fc.Realtime
	}

	dst := c.KeyBindings.pointers()
	for name, ptr := range fc.KeyBindings.pointers() {
		setString(dst[name], *ptr)
	}

	setString(&c.Theme.Name, fc.Theme.Name)

	if len(fc.Theme.Colors) > 0 {
		if c.Theme.Colors == nil {
			c.Theme.Colors = make(map[string]string, len(fc.Theme.Colors))
		}

		for k, v := range fc.Theme.Colors {
			c.Theme.Colors[k] = v
		}
	}

	return nil
}

// ApplyEnv overlays LYNVA_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + "_" + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("URL"); ok {
		c.URL = v
	}

	if v, ok := get("ANON_KEY"); ok {
		c.AnonKey = v
	}

	if v, ok := get("EMAIL"); ok {
		c.Email = v
	}

	if v, ok := get("PASSWORD"); ok {
		c.Password = v
	}

	if v, ok := get("INSECURE"); ok {
		c.Insecure = strings.EqualFold(v, trueString)
	}

	if v, ok := get("DEBUG"); ok {
		c.Debug = strings.EqualFold(v, trueString)
	}

	if v, ok := get("CACHE_DIR"); ok {
		c.CacheDir = ExpandHomePath(v)
	}

	if v, ok := get("AGE_DIR"); ok {
		c.AgeDir = ExpandHomePath(v)
	}

	if v, ok := get("REALTIME"); ok {
		c.Realtime = !strings.EqualFold(v, "false")
	}

	if v, ok := get("PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s_PAGE_SIZE: %w", EnvPrefix, err)
		}

		c.PageSize = n
	}

	if v, ok := get("CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s_CACHE_TTL: %w", EnvPrefix, err)
		}

		c.CacheTTL = d
	}

	return nil
}

// SetDefaults fills unspecified options.
func (c *Config) SetDefaults() {
	if c.CacheDir == "" {
		c.CacheDir = getXDGCacheDir()
	}

	c.CacheDir = ExpandHomePath(c.CacheDir)

	if c.AgeDir != "" {
		c.AgeDir = ExpandHomePath(c.AgeDir)
		SetAgeDirOverride(c.AgeDir)
	}

	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}

	if c.URL != "" && !strings.Contains(c.URL, "://") {
		c.URL = "https://" + c.URL
	}

	c.URL = strings.TrimRight(c.URL, "/")
	c.KeyBindings = c.KeyBindings.withDefaults()
}

// Validate checks the connection settings and UI options. A missing password
// is allowed: the login command prompts for it and later runs reuse the
// cached session.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("project URL required: set via --url flag, LYNVA_URL env var, or config file")
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid project URL %q", c.URL)
	}

	if c.AnonKey == "" {
		return errors.New("anon key required: set via --anon-key flag, LYNVA_ANON_KEY env var, or config file")
	}

	if c.Email == "" {
		return errors.New("account email required: set via --email flag, LYNVA_EMAIL env var, or config file")
	}

	if c.PageSize < 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", MaxPageSize, c.PageSize)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %v", c.CacheTTL)
	}

	return ValidateKeyBindings(c.KeyBindings)
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string { return c.path }

// IsSOPSEncrypted reports whether the loaded file was SOPS-encrypted.
func (c *Config) IsSOPSEncrypted() bool { return c.sopsEncrypted }

// HasCleartextPassword reports whether a password is stored unencrypted.
func (c *Config) HasCleartextPassword() bool {
	return c.Password != "" && !isEncrypted(c.Password)
}

// GetURL implements interfaces.Config.
func (c *Config) GetURL() string { return c.URL }

// GetAnonKey implements interfaces.Config.
func (c *Config) GetAnonKey() string { return c.AnonKey }

// GetEmail implements interfaces.Config.
func (c *Config) GetEmail() string { return c.Email }

// GetPassword implements interfaces.Config. Encrypted passwords are decrypted
// on access; a password that cannot be decrypted reads as empty.
func (c *Config) GetPassword() string {
	pw, err := DecryptField(c.Password)
	if err != nil {
		return ""
	}

	return pw
}

// GetInsecure implements interfaces.Config.
func (c *Config) GetInsecure() bool { return c.Insecure }

var _ interfaces.Config = (*Config)(nil)

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ExpandHomePath expands a leading ~ using the current user's home directory.
func ExpandHomePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") && !strings.HasPrefix(trimmed, "~\\") {
		return trimmed
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return trimmed
	}

	rest := strings.TrimLeft(strings.TrimPrefix(trimmed, "~"), `/\`)
	if rest == "" {
		return home
	}

	return filepath.Join(home, rest)
}
