package ai

import (
	"context"
	"strings"
)

// CredentialProvider supplies the backend API key on each request. It must
// return ErrMissingCredential, possibly wrapped, when no key is available
// instead of blocking.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// StaticCredential is a fixed key, typically read from configuration.
type StaticCredential string

func (s StaticCredential) Credential(context.Context) (string, error) {
	key := strings.TrimSpace(string(s))
	if key == "" {
		return "", ErrMissingCredential
	}
	return key, nil
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, error)

func (f CredentialFunc) Credential(ctx context.Context) (string, error) { return f(ctx) }
