package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUICKNOTES_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPO_OWNER", "")
	t.Setenv("GITHUB_REPO_NAME", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.RepoOwner != DefaultRepoOwner {
		t.Errorf("RepoOwner = %q, want %q", cfg.GitHub.RepoOwner, DefaultRepoOwner)
	}
	if cfg.GitHub.RepoName != DefaultRepoName {
		t.Errorf("RepoName = %q, want %q", cfg.GitHub.RepoName, DefaultRepoName)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Repo().String() != DefaultRepoOwner+"/"+DefaultRepoName {
		t.Errorf("Repo() = %q", cfg.Repo().String())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"GitHub":{"Token":"file-token","RepoOwner":"acme","RepoName":"notes"},"Server":{"Port":9090}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("QUICKNOTES_CONFIG", path)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPO_OWNER", "")
	t.Setenv("GITHUB_REPO_NAME", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.Token != "file-token" {
		t.Errorf("Token = %q, want %q", cfg.GitHub.Token, "file-token")
	}
	if cfg.GitHub.RepoOwner != "acme" || cfg.GitHub.RepoName != "notes" {
		t.Errorf("repo = %s/%s, want acme/notes", cfg.GitHub.RepoOwner, cfg.GitHub.RepoName)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"GitHub":{"Token":"file-token","RepoOwner":"acme","RepoName":"notes"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("QUICKNOTES_CONFIG", path)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("GITHUB_REPO_OWNER", "env-owner")
	t.Setenv("GITHUB_REPO_NAME", "env-repo")
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", cfg.GitHub.Token)
	}
	if cfg.GitHub.RepoOwner != "env-owner" || cfg.GitHub.RepoName != "env-repo" {
		t.Errorf("repo = %s/%s, want env-owner/env-repo", cfg.GitHub.RepoOwner, cfg.GitHub.RepoName)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("QUICKNOTES_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid PORT")
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	t.Setenv("QUICKNOTES_CONFIG", path)

	cfg := &Config{}
	cfg.GitHub.Token = "secret"
	cfg.GitHub.RepoOwner = "acme"
	cfg.GitHub.RepoName = "notes"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}
