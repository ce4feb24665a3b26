package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hellausefulsoftware/quicknotes/internal/config"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/server"
	"github.com/hellausefulsoftware/quicknotes/internal/tui"
)

var (
	loadDotEnv         = godotenv.Load
	defaultListenServe = http.ListenAndServe
)

func main() {
	// Initialize logger with default configuration
	logging.Initialize(nil)

	var logLevel string
	var logJSON bool

	rootCmd := &cobra.Command{
		Use:   "quicknotes",
		Short: "Append quick notes to GitHub issues",
		Long:  `A terminal tool for capturing free-text notes into a GitHub repository: each note becomes a comment on an existing issue or the body of a new one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	// Configure logging based on flags
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level logging.LogLevel
		switch logLevel {
		case "debug":
			level = logging.LogLevelDebug
		case "warn":
			level = logging.LogLevelWarn
		case "error":
			level = logging.LogLevelError
		default:
			level = logging.LogLevelInfo
		}

		// Logs go to stderr so TUI output and piped JSON stay clean
		logging.Initialize(&logging.Config{
			Level:      level,
			Output:     os.Stderr,
			JSONFormat: logJSON,
		})
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway for the GitHub API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg, defaultListenServe)
		},
	}

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// First run: write the defaults so the file is there to edit. The
	// token stays out of it; it belongs to the state store or the
	// environment, not a template config.
	if !config.Exists() {
		bootstrap := *cfg
		bootstrap.GitHub.Token = ""
		if err := bootstrap.Save(); err != nil {
			logging.Warn("Failed to write default config file", "error", err)
		}
	}

	return cfg, nil
}

func runServer(cfg *config.Config, serve func(string, http.Handler) error) error {
	router := mux.NewRouter()
	server.NewHandler(cfg).RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logging.Info("Starting quicknotes gateway", "addr", addr, "repo", cfg.Repo().String())

	if err := serve(addr, router); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
