// Package credentials provides secure API key storage for the scribe CLI.
// Keys are held in the system keyring:
//   - macOS: Keychain
//   - Windows: Credential Manager
//   - Linux: Secret Service (libsecret)
//
// The OPENAI_API_KEY environment variable always takes precedence over the
// keyring, which keeps CI and scripted use simple.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// Keyring coordinates.
const (
	ServiceName = "scribe"
	APIKeyUser  = "openai_api_key"
)

// ErrNoCredentials is returned when no API key is available from either the
// environment or the keyring.
var ErrNoCredentials = errors.New("no API key stored")

// APIKey returns the completion-service API key, preferring the
// OPENAI_API_KEY environment variable over the system keyring.
func APIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	key, err := keyring.Get(ServiceName, APIKeyUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoCredentials
		}
		return "", fmt.Errorf("reading API key from keyring: %w", err)
	}
	return key, nil
}

// SetAPIKey stores the API key in the system keyring.
func SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}
	if err := keyring.Set(ServiceName, APIKeyUser, key); err != nil {
		return fmt.Errorf("storing API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored API key from the system keyring.
func DeleteAPIKey() error {
	err := keyring.Delete(ServiceName, APIKeyUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting API key from keyring: %w", err)
	}
	return nil
}

// PromptAPIKey reads an API key from the terminal without echoing it.
func PromptAPIKey() (string, error) {
	fmt.Fprint(os.Stderr, "API key: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// MaskAPIKey returns a display-safe form of an API key, keeping only the
// first four and last four characters.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
