package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// Default repository used when neither the config file, the environment,
// nor the caller supplies one.
const (
	DefaultRepoOwner = "github"
	DefaultRepoName  = "solutions-engineering"
	DefaultPort      = 8080
)

// Config holds the application configuration
type Config struct {
	GitHub struct {
		Token     string
		RepoOwner string
		RepoName  string
	}
	Server struct {
		Port int
	}
	Logging struct {
		Output     io.Writer `json:"-"`
		Level      string
		JSONFormat bool
	}
}

// Repo returns the configured default repository reference
func (c *Config) Repo() models.RepositoryRef {
	return models.RepositoryRef{Owner: c.GitHub.RepoOwner, Name: c.GitHub.RepoName}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if path := os.Getenv("QUICKNOTES_CONFIG"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "quicknotes.json")
	}
	return filepath.Join(homeDir, ".config", "quicknotes", "config.json")
}

// Exists checks if a configuration file exists
func Exists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}

// Load loads the configuration from the config file and environment.
// A missing config file is not an error: defaults plus environment
// overrides are enough to run both the TUI and the server.
func Load() (*Config, error) {
	cfg := &Config{}

	// Defaults
	cfg.GitHub.RepoOwner = DefaultRepoOwner
	cfg.GitHub.RepoName = DefaultRepoName
	cfg.Server.Port = DefaultPort
	cfg.Logging.Level = "info"

	configPath := GetConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to decode config: %w", err)
		}
	}

	// Environment variables override the config file
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if owner := os.Getenv("GITHUB_REPO_OWNER"); owner != "" {
		cfg.GitHub.RepoOwner = owner
	}
	if name := os.Getenv("GITHUB_REPO_NAME"); name != "" {
		cfg.GitHub.RepoName = name
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	return cfg, nil
}

// Save writes the configuration to the config file
func (c *Config) Save() error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, configJSON, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
