// Package server exposes the GitHub gateway as a small JSON API. Each
// handler is a stateless pass-through: extract the bearer credential,
// forward one REST call, reshape the response into a minimal DTO.
// Upstream failures are logged for operators and surfaced to callers as
// a generic message, never as the raw error.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/hellausefulsoftware/quicknotes/internal/config"
	"github.com/hellausefulsoftware/quicknotes/internal/github"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// GitHubClient is the gateway operation set the handlers forward to.
// *github.Client satisfies this; tests substitute a fake.
type GitHubClient interface {
	GetAuthenticatedUser(ctx context.Context) (*models.User, error)
	ListLabels(ctx context.Context, repo models.RepositoryRef) ([]models.Label, error)
	SearchIssues(ctx context.Context, repo models.RepositoryRef, query string) ([]models.Issue, error)
	CreateIssue(ctx context.Context, repo models.RepositoryRef, title, body string, labels []string) (*models.IssueResult, error)
	CreateComment(ctx context.Context, repo models.RepositoryRef, issueNumber int, body string) (*models.CommentResult, error)
}

// ClientFactory builds a GitHub client for a request's bearer token.
type ClientFactory func(token string) GitHubClient

// Handler handles gateway API requests. The repository default is
// mutable through POST /config while other handlers read it from
// concurrent request goroutines, so access goes through repoMu.
type Handler struct {
	cfg       *config.Config
	newClient ClientFactory

	repoMu      sync.RWMutex
	defaultRepo models.RepositoryRef
}

// NewHandler creates a gateway handler with the default client factory
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		cfg:         cfg,
		defaultRepo: cfg.Repo(),
		newClient: func(token string) GitHubClient {
			return github.NewClient(token)
		},
	}
}

// repo returns the current repository default.
func (h *Handler) repo() models.RepositoryRef {
	h.repoMu.RLock()
	defer h.repoMu.RUnlock()
	return h.defaultRepo
}

// setRepo replaces the repository default.
func (h *Handler) setRepo(repo models.RepositoryRef) {
	h.repoMu.Lock()
	defer h.repoMu.Unlock()
	h.defaultRepo = repo
}

// RegisterRoutes registers the gateway API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/user", h.handleUser).Methods("GET")
	r.HandleFunc("/labels", h.handleLabels).Methods("GET")
	r.HandleFunc("/search-issues", h.handleSearchIssues).Methods("GET")
	r.HandleFunc("/create-issue", h.handleCreateIssue).Methods("POST")
	r.HandleFunc("/add-comment", h.handleAddComment).Methods("POST")
	r.HandleFunc("/config", h.handleGetConfig).Methods("GET")
	r.HandleFunc("/config", h.handleSetConfig).Methods("POST")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
}

// bearerToken extracts the credential from the Authorization header.
// Absence or a malformed header means no call is made to GitHub at all.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// repoFromQuery resolves the target repository from query parameters,
// defaulting to the configured repository.
func (h *Handler) repoFromQuery(r *http.Request) models.RepositoryRef {
	repo := h.repo()
	if owner := r.URL.Query().Get("owner"); owner != "" {
		repo.Owner = owner
	}
	if name := r.URL.Query().Get("repo"); name != "" {
		repo.Name = name
	}
	return repo
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	user, err := h.newClient(token).GetAuthenticatedUser(r.Context())
	if err != nil {
		logging.Error("Token validation failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Invalid token or failed to authenticate")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleLabels(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	repo := h.repoFromQuery(r)
	labels, err := h.newClient(token).ListLabels(r.Context(), repo)
	if err != nil {
		logging.Error("Failed to fetch labels", "repo", repo.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch labels")
		return
	}

	if labels == nil {
		labels = []models.Label{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"labels": labels})
}

func (h *Handler) handleSearchIssues(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter required")
		return
	}

	repo := h.repoFromQuery(r)
	issues, err := h.newClient(token).SearchIssues(r.Context(), repo, query)
	if err != nil {
		logging.Error("Failed to search issues", "repo", repo.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to search issues")
		return
	}

	if issues == nil {
		issues = []models.Issue{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

type createIssueRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	RepoOwner string   `json:"repoOwner"`
	RepoName  string   `json:"repoName"`
}

func (h *Handler) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "Title and body are required")
		return
	}

	repo := h.repo()
	if req.RepoOwner != "" {
		repo.Owner = req.RepoOwner
	}
	if req.RepoName != "" {
		repo.Name = req.RepoName
	}

	result, err := h.newClient(token).CreateIssue(r.Context(), repo, req.Title, req.Body, req.Labels)
	if err != nil {
		logging.Error("Failed to create issue", "repo", repo.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create issue")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type addCommentRequest struct {
	IssueNumber int    `json:"issueNumber"`
	Body        string `json:"body"`
	RepoOwner   string `json:"repoOwner"`
	RepoName    string `json:"repoName"`
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IssueNumber <= 0 || req.Body == "" {
		writeError(w, http.StatusBadRequest, "Issue number and body are required")
		return
	}

	repo := h.repo()
	if req.RepoOwner != "" {
		repo.Owner = req.RepoOwner
	}
	if req.RepoName != "" {
		repo.Name = req.RepoName
	}

	result, err := h.newClient(token).CreateComment(r.Context(), repo, req.IssueNumber, req.Body)
	if err != nil {
		logging.Error("Failed to add comment", "repo", repo.String(), "issue", req.IssueNumber, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo())
}

func (h *Handler) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var repo models.RepositoryRef
	if err := json.NewDecoder(r.Body).Decode(&repo); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !repo.IsValid() {
		writeError(w, http.StatusBadRequest, "Owner and name are required")
		return
	}

	h.setRepo(repo)

	writeJSON(w, http.StatusOK, map[string]any{
		"owner":   repo.Owner,
		"name":    repo.Name,
		"message": "Repository configuration updated",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
