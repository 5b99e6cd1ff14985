package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "lynva-tui"
	configFileName = "config.yml"
)

//go:embed config.tpl.yml
var templateFS embed.FS

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getXDGConfigDir(), configFileName)
}

// FindDefaultConfigPath returns the first existing config file among the
// default path and ./config.yml.
func FindDefaultConfigPath() (string, bool) {
	for _, candidate := range []string{GetDefaultConfigPath(), configFileName} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

// CreateDefaultConfigFileAt writes the commented template to path unless a
// file already exists there. It returns path.
func CreateDefaultConfigFileAt(path string) (string, error) {
	if path == "" {
		return "", errors.New("config path is empty")
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	data, err := templateFS.ReadFile("config.tpl.yml")
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}

	return path, nil
}

// Save writes the config to path as YAML. A cleartext password is encrypted
// with the local age identity first. SOPS-managed files are never rewritten.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	if c.sopsEncrypted && path == c.path {
		return errors.New("refusing to overwrite a SOPS-encrypted config; edit it with sops")
	}

	out := *c

	encrypted, err := EncryptField(c.Password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	out.Password = encrypted

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	c.Password = encrypted
	c.path = path

	return nil
}

// getXDGConfigDir returns $XDG_CONFIG_HOME/lynva-tui or ~/.config/lynva-tui.
func getXDGConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appDirName)
	}

	return filepath.Join(home, ".config", appDirName)
}

// getXDGCacheDir returns $XDG_CACHE_HOME/lynva-tui or ~/.cache/lynva-tui.
func getXDGCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", appDirName)
	}

	return filepath.Join(home, ".cache", appDirName)
}

// IsSOPSEncrypted reports whether data looks like a SOPS-encrypted YAML file:
// it carries a top-level sops metadata block and at least one ENC[ value.
func IsSOPSEncrypted(data []byte) bool {
	var doc struct {
		Sops map[string]any `yaml:"sops"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}

	return doc.Sops != nil && bytes.Contains(data, []byte("ENC["))
}
