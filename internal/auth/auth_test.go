package auth

import (
	"path/filepath"
	"testing"

	"github.com/hellausefulsoftware/quicknotes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("  ghp_abc  ")
	token, err := p.Token()
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc", token)

	_, err = NewStaticProvider("   ").Token()
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	token, err := (&EnvProvider{}).Token()
	require.NoError(t, err)
	assert.Equal(t, "ghp_env", token)

	t.Setenv("GITHUB_TOKEN", "")
	_, err = (&EnvProvider{}).Token()
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestStoreProvider(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	p := NewStoreProvider(s)
	_, err = p.Token()
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, s.SetToken("ghp_persisted"))
	token, err := p.Token()
	require.NoError(t, err)
	assert.Equal(t, "ghp_persisted", token)
}

func TestResolveOrder(t *testing.T) {
	token, err := Resolve(NewStaticProvider(""), NewStaticProvider("ghp_second"))
	require.NoError(t, err)
	assert.Equal(t, "ghp_second", token)

	_, err = Resolve(NewStaticProvider(""))
	assert.ErrorIs(t, err, ErrNoCredential)
}
