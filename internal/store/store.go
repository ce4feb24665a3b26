// Package store persists the small amount of client state that survives
// restarts: the GitHub credential, the target repository, and the
// display preference. It is the terminal analog of the browser's local
// storage, a flat key-value file cleared only by explicit logout.
package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// Fixed, documented keys. Anything else in the state file is ignored.
const (
	KeyToken     = "github_token"
	KeyRepoOwner = "repo_owner"
	KeyRepoName  = "repo_name"
	KeyTheme     = "theme"
)

// Theme preference values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrNotFound indicates the requested key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a file-backed key-value store for persisted client state.
// Values load once before first render and write through on every Set.
type Store struct {
	path   string
	values map[string]string
}

// DefaultPath returns the state file location
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "quicknotes-state.json")
	}
	return filepath.Join(homeDir, ".config", "quicknotes", "state.json")
}

// Open loads the store from the given path, creating an empty store if
// the file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}

	return s, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value under key and writes the file through.
func (s *Store) Set(key, value string) error {
	s.values[key] = value
	return s.flush()
}

// Delete removes a single key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	delete(s.values, key)
	return s.flush()
}

// Clear removes every stored value. Used on explicit logout.
func (s *Store) Clear() error {
	s.values = make(map[string]string)
	return s.flush()
}

// Token returns the persisted credential, decoded from its at-rest form.
func (s *Store) Token() (string, error) {
	encoded, err := s.Get(KeyToken)
	if err != nil {
		return "", err
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode stored token: %w", err)
	}
	return string(decoded), nil
}

// SetToken persists the credential. Tokens are base64 encoded at rest so
// they do not appear verbatim in the state file.
func (s *Store) SetToken(token string) error {
	return s.Set(KeyToken, base64.StdEncoding.EncodeToString([]byte(token)))
}

// ClearToken drops only the credential, keeping repository and theme
// settings. Used when a token turns out to be revoked.
func (s *Store) ClearToken() error {
	return s.Delete(KeyToken)
}

// Repo returns the persisted repository reference, falling back to the
// given default for any missing part.
func (s *Store) Repo(fallback models.RepositoryRef) models.RepositoryRef {
	repo := fallback
	if owner, err := s.Get(KeyRepoOwner); err == nil && owner != "" {
		repo.Owner = owner
	}
	if name, err := s.Get(KeyRepoName); err == nil && name != "" {
		repo.Name = name
	}
	return repo
}

// SetRepo persists the repository reference.
func (s *Store) SetRepo(repo models.RepositoryRef) error {
	if !repo.IsValid() {
		return errors.New("repository owner and name are required")
	}
	if err := s.Set(KeyRepoOwner, repo.Owner); err != nil {
		return err
	}
	return s.Set(KeyRepoName, repo.Name)
}

// Theme returns the persisted display preference, defaulting to dark.
func (s *Store) Theme() string {
	theme, err := s.Get(KeyTheme)
	if err != nil || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeDark
	}
	return theme
}

// SetTheme persists the display preference.
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Set(KeyTheme, theme)
}

// flush writes the state file with owner-only permissions.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
