package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	// encryptionPrefix marks encrypted fields in the config file.
	encryptionPrefix = "age1:"
	// identityFileName holds the X25519 private key.
	identityFileName = ".age-identity"
	// recipientFileName holds the matching public key for reference.
	recipientFileName = ".age-recipient"
)

var (
	ageDirMu       sync.RWMutex
	ageDirOverride string
)

// SetAgeDirOverride changes where the age identity is stored. An empty dir
// restores the config directory.
func SetAgeDirOverride(dir string) {
	ageDirMu.Lock()
	defer ageDirMu.Unlock()

	ageDirOverride = dir
}

func ageDir() string {
	ageDirMu.RLock()
	defer ageDirMu.RUnlock()

	if ageDirOverride != "" {
		return ageDirOverride
	}

	return getXDGConfigDir()
}

// loadOrCreateIdentity returns the local age identity, generating and
// persisting a new one on first use.
func loadOrCreateIdentity() (*age.X25519Identity, error) {
	dir := ageDir()
	identityPath := filepath.Join(dir, identityFileName)

	data, err := os.ReadFile(identityPath)
	if err == nil {
		identities, perr := age.ParseIdentities(bytes.NewReader(data))
		if perr != nil {
			return nil, fmt.Errorf("parse identity %s: %w", identityPath, perr)
		}

		for _, id := range identities {
			if x, ok := id.(*age.X25519Identity); ok {
				return x, nil
			}
		}

		return nil, fmt.Errorf("no X25519 identity in %s", identityPath)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read identity: %w", err)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create age directory: %w", err)
	}

	if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("save identity: %w", err)
	}

	recipient := identity.Recipient().String() + "\n"
	if err := os.WriteFile(filepath.Join(dir, recipientFileName), []byte(recipient), 0o600); err != nil {
		return nil, fmt.Errorf("save recipient: %w", err)
	}

	return identity, nil
}

func isEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptionPrefix)
}

// EncryptField encrypts value for the local age identity and returns it
// base64 encoded behind the "age1:" prefix. Empty and already encrypted
// values are returned unchanged.
func EncryptField(value string) (string, error) {
	if value == "" || isEncrypted(value) {
		return value, nil
	}

	identity, err := loadOrCreateIdentity()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("create encrypt writer: %w", err)
	}

	if _, err := io.WriteString(w, value); err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close encrypt writer: %w", err)
	}

	return encryptionPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecryptField reverses EncryptField. Values without the prefix are returned as-is.
func DecryptField(value string) (string, error) {
	if !isEncrypted(value) {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encryptionPrefix))
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	identity, err := loadOrCreateIdentity()
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read decrypted data: %w", err)
	}

	return string(plain), nil
}
