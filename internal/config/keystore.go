package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const keyFileName = "api_key"

var ErrKeyNotFound = errors.New("API key not found")

// KeyStore persists the API key as a single owner-only file.
type KeyStore struct {
	dir string
}

func NewKeyStore(dir string) *KeyStore {
	return &KeyStore{dir: dir}
}

// Path returns the key file location.
func (s *KeyStore) Path() string {
	return filepath.Join(s.dir, keyFileName)
}

func (s *KeyStore) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(s.Path(), []byte(key+"\n"), 0600)
}

func (s *KeyStore) LoadAPIKey() (string, error) {
	data, err := os.ReadFile(s.Path()) // #nosec G304 -- fixed file name under the config dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrKeyNotFound
	}
	return key, nil
}

// KeySource re-reads config.yaml and the api_key file on every call, so a key
// saved while a panel is open applies to its next request. .env is read once
// at startup by LoadDotEnv.
type KeySource struct {
	dir string
}

func NewKeySource(dir string) *KeySource {
	return &KeySource{dir: dir}
}

// APIKey returns the configured key, or "" when there is none.
func (k *KeySource) APIKey(context.Context) (string, error) {
	cfg, err := Load(k.dir)
	if err != nil {
		return "", err
	}
	return cfg.APIKey, nil
}
