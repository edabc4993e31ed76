// Package auth stores the optional catalog API key in the OS keychain,
// with a home-directory file fallback for environments without one.
package auth

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "pctl"
	keyringUser    = "catalog_api_key"
	keyFileName    = "catalog_api_key"

	fileMode = 0600
)

// SaveAPIKey persists the key, preferring the OS keychain.
func SaveAPIKey(homeDir, key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveAPIKeyFile(homeDir, key)
	}

	// Clean up the fallback file if it exists.
	os.Remove(path.Join(homeDir, keyFileName))
	return nil
}

// GetAPIKey returns the stored key, or empty when none is configured.
// A missing key is not an error; the catalog APIs work without one.
func GetAPIKey(homeDir string) string {
	if key, err := keyring.Get(keyringService, keyringUser); err == nil && key != "" {
		return key
	}

	b, err := os.ReadFile(path.Join(homeDir, keyFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// DeleteAPIKey removes the key from both the keychain and the fallback file.
func DeleteAPIKey(homeDir string) error {
	kerr := keyring.Delete(keyringService, keyringUser)
	ferr := os.Remove(path.Join(homeDir, keyFileName))

	if kerr != nil && ferr != nil {
		return fmt.Errorf("no stored API key")
	}
	return nil
}

func saveAPIKeyFile(homeDir, key string) error {
	return os.WriteFile(path.Join(homeDir, keyFileName), []byte(key), fileMode)
}
