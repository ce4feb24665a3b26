// Package auth unifies the ways a GitHub credential can be obtained
// behind a single CredentialProvider capability, so the rest of the
// system never cares whether a token was typed in, restored from the
// state file, or pulled from the environment.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/hellausefulsoftware/quicknotes/internal/store"
)

// ErrNoCredential indicates no token is available from any provider.
var ErrNoCredential = errors.New("no GitHub credential available")

// CredentialProvider yields the current bearer token, or an error when
// none is available.
type CredentialProvider interface {
	Token() (string, error)
}

// StaticProvider wraps a manually supplied personal access token.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider for a token the user typed in.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: strings.TrimSpace(token)}
}

// Token returns the wrapped token.
func (p *StaticProvider) Token() (string, error) {
	if p.token == "" {
		return "", ErrNoCredential
	}
	return p.token, nil
}

// EnvProvider obtains tokens from the GITHUB_TOKEN environment variable.
type EnvProvider struct{}

// Token reads GITHUB_TOKEN.
func (p *EnvProvider) Token() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// StoreProvider restores the credential persisted by a previous session.
type StoreProvider struct {
	store *store.Store
}

// NewStoreProvider creates a provider backed by the settings store.
func NewStoreProvider(s *store.Store) *StoreProvider {
	return &StoreProvider{store: s}
}

// Token returns the persisted token, if any.
func (p *StoreProvider) Token() (string, error) {
	token, err := p.store.Token()
	if err != nil {
		return "", ErrNoCredential
	}
	return token, nil
}

// Resolve tries each provider in order and returns the first token
// found. The caller must still validate the token before trusting it:
// a persisted credential can have been revoked externally at any time.
func Resolve(providers ...CredentialProvider) (string, error) {
	for _, p := range providers {
		if token, err := p.Token(); err == nil {
			return token, nil
		}
	}
	return "", ErrNoCredential
}

// Validator confirms a credential against GitHub's whoami endpoint.
// *github.Client satisfies this.
type Validator interface {
	GetAuthenticatedUser(ctx context.Context) (*models.User, error)
}

// Validate performs the single round trip that confirms a token is
// live, returning the authenticated identity. Any error means the
// caller must clear the stored credential and fall back to the
// unauthenticated state.
func Validate(ctx context.Context, v Validator) (*models.User, error) {
	return v.GetAuthenticatedUser(ctx)
}
