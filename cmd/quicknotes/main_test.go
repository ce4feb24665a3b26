package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hellausefulsoftware/quicknotes/internal/config"
)

func TestLoadConfigWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("QUICKNOTES_CONFIG", path)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("PORT", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", cfg.GitHub.Token)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected bootstrapped config file: %v", err)
	}

	var written config.Config
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("bootstrapped config is not valid JSON: %v", err)
	}
	if written.GitHub.Token != "" {
		t.Error("bootstrapped config must not contain the token")
	}
	if written.GitHub.RepoOwner != config.DefaultRepoOwner {
		t.Errorf("RepoOwner = %q, want %q", written.GitHub.RepoOwner, config.DefaultRepoOwner)
	}
}

func TestLoadConfigDoesNotOverwriteExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"GitHub":{"RepoOwner":"acme","RepoName":"notes"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUICKNOTES_CONFIG", path)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPO_OWNER", "")
	t.Setenv("GITHUB_REPO_NAME", "")
	t.Setenv("PORT", "")

	if _, err := loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Error("existing config file must be left untouched")
	}
}

func TestRunServerServesGatewayRoutes(t *testing.T) {
	t.Setenv("QUICKNOTES_CONFIG", filepath.Join(t.TempDir(), "config.json"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Port = 9999

	var gotAddr string
	var gotHandler http.Handler
	serve := func(addr string, handler http.Handler) error {
		gotAddr = addr
		gotHandler = handler
		return nil
	}

	if err := runServer(cfg, serve); err != nil {
		t.Fatalf("runServer() error = %v", err)
	}
	if gotAddr != ":9999" {
		t.Errorf("addr = %q, want :9999", gotAddr)
	}

	w := httptest.NewRecorder()
	gotHandler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q, want 200 OK", w.Code, w.Body.String())
	}
}
