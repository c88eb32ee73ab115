package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a provider has no value for a secret.
var ErrNotFound = errors.New("secret not found")

// SecretProvider retrieves secrets from a backend.
type SecretProvider interface {
	// GetSecret retrieves a secret by name. A missing secret yields an
	// error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file).
	Provider() string
}

// RefreshableProvider can drop cached values so they are read again.
type RefreshableProvider interface {
	SecretProvider

	// Refresh invalidates any cached secrets.
	Refresh(ctx context.Context) error
}
