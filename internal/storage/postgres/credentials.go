package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "routine"
	keyringUser    = "connection-string"
)

var (
	// ErrEmbeddedCredentials is returned for connection strings that carry a
	// password inline. Passwords belong in the OS keyring, .pgpass, or
	// environment variables.
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")

	// ErrNoStoredCredentials is returned when the OS keyring has no stored
	// connection string.
	ErrNoStoredCredentials = errors.New("no connection string stored in keyring")
)

// HasEmbeddedCredentials reports whether a URL- or DSN-style connection
// string carries an inline password.
func HasEmbeddedCredentials(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.User != nil {
		if _, set := u.User.Password(); set {
			return true
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}

// ResolveConnectionString validates a caller-supplied connection string, or,
// when given an empty string, falls back to the one stored in the OS
// keyring.
func ResolveConnectionString(connStr string) (string, error) {
	if connStr != "" {
		if HasEmbeddedCredentials(connStr) {
			return "", ErrEmbeddedCredentials
		}
		return connStr, nil
	}

	stored, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoStoredCredentials
		}
		return "", fmt.Errorf("keyring unavailable: %w", err)
	}
	return stored, nil
}

// StoreConnectionString saves a connection string in the OS keyring.
func StoreConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

// ClearConnectionString removes the stored connection string, if any.
func ClearConnectionString() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// RedactConnectionString strips any userinfo from a URL-style connection
// string for display in diagnostics.
func RedactConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.Scheme == "" {
		return connStr
	}
	u.User = nil
	return u.String()
}
