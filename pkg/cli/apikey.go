package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// Keyring entry holding the Gemini API key.
const (
	KeyringService = "scout"
	KeyringUser    = "gemini-api-key"
)

// API key sources reported by ResolveAPIKey.
const (
	KeySourceFlag    = "flag"
	KeySourceConfig  = "config"
	KeySourceKeyring = "keyring"
)

// ErrNoAPIKey is returned when no Gemini API key is available.
var ErrNoAPIKey = errors.New("no Gemini API key: use --api-key, set GEMINI_API_KEY, or run 'scout auth set-key'")

// SaveAPIKey stores key in the system keyring.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("store API key in keyring: %w", err)
	}
	return nil
}

// LoadAPIKey reads the key from the system keyring. A missing entry returns
// ErrNoAPIKey.
func LoadAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("read API key from keyring: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes the key from the system keyring. Deleting a missing
// key is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete API key from keyring: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the first key found in the flag, the configuration
// and the keyring, with the name of its source. A keyring that cannot be
// reached counts as empty.
func ResolveAPIKey(flagKey, configKey string) (key, source string, err error) {
	if k := strings.TrimSpace(flagKey); k != "" {
		return k, KeySourceFlag, nil
	}
	if k := strings.TrimSpace(configKey); k != "" {
		return k, KeySourceConfig, nil
	}
	if k, err := LoadAPIKey(); err == nil && k != "" {
		return k, KeySourceKeyring, nil
	}
	return "", "", ErrNoAPIKey
}
