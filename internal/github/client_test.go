package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// mockGitHubServer creates a mock GitHub server for testing
func mockGitHubServer(t *testing.T, handler http.Handler) (*httptest.Server, *Client) {
	server := httptest.NewServer(handler)

	client := NewClient("test-token")

	// Override client's base URL to point to the mock server
	baseURL, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	client.client.BaseURL = baseURL
	client.client.UploadURL = baseURL

	return server, client
}

var testRepo = models.RepositoryRef{Owner: "testowner", Name: "testrepo"}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token")
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.client == nil {
		t.Fatal("Client has nil GitHub client")
	}
}

func TestGetAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET method, got %s", r.Method)
		}

		w.WriteHeader(http.StatusOK)
		_, writeErr := w.Write([]byte(`{
			"login": "testuser",
			"name": "Test User",
			"email": "test@example.com",
			"avatar_url": "https://example.com/avatar.png"
		}`))
		if writeErr != nil {
			t.Errorf("Error writing response in mock server: %v", writeErr)
		}
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	user, err := client.GetAuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("GetAuthenticatedUser returned error: %v", err)
	}
	if user.Login != "testuser" {
		t.Errorf("User login mismatch, got %s, want %s", user.Login, "testuser")
	}
	if user.DisplayName() != "Test User" {
		t.Errorf("DisplayName mismatch, got %s, want %s", user.DisplayName(), "Test User")
	}
}

func TestGetAuthenticatedUserUnauthorized(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	_, err := client.GetAuthenticatedUser(context.Background())
	if err == nil {
		t.Fatal("Expected error for revoked token, got nil")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false, want true", err)
	}
}

func TestIsUnauthorizedIgnoresOtherFailures(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "rate limited"}`))
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	_, err := client.GetAuthenticatedUser(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true for a 403, want false", err)
	}
	if IsUnauthorized(errors.New("plain failure")) {
		t.Error("IsUnauthorized must be false for non-GitHub errors")
	}
}

func TestListLabels(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/testowner/testrepo/labels", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("Expected per_page=100, got %s", got)
		}

		w.WriteHeader(http.StatusOK)
		_, writeErr := w.Write([]byte(`[
			{"name": "bug", "color": "d73a4a", "description": "Something isn't working"},
			{"name": "feature", "color": "a2eeef"}
		]`))
		if writeErr != nil {
			t.Errorf("Error writing response in mock server: %v", writeErr)
		}
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	labels, err := client.ListLabels(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("ListLabels returned error: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("Expected 2 labels, got %d", len(labels))
	}
	if labels[0].Name != "bug" || labels[0].Color != "d73a4a" {
		t.Errorf("Unexpected first label: %+v", labels[0])
	}
	if labels[0].Description != "Something isn't working" {
		t.Errorf("Description mismatch: %s", labels[0].Description)
	}
}

func TestSearchIssuesFiltersPullRequests(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != "repo:testowner/testrepo login bug in:title,body" {
			t.Errorf("Unexpected search query: %s", got)
		}
		if got := q.Get("sort"); got != "updated" {
			t.Errorf("Expected sort=updated, got %s", got)
		}
		if got := q.Get("order"); got != "desc" {
			t.Errorf("Expected order=desc, got %s", got)
		}
		if got := q.Get("per_page"); got != "5" {
			t.Errorf("Expected per_page=5, got %s", got)
		}

		w.WriteHeader(http.StatusOK)
		_, writeErr := w.Write([]byte(`{
			"total_count": 3,
			"items": [
				{"number": 10, "title": "Login fails", "html_url": "https://github.com/testowner/testrepo/issues/10", "state": "open"},
				{"number": 11, "title": "Fix login", "html_url": "https://github.com/testowner/testrepo/pull/11", "state": "open", "pull_request": {"url": "https://api.github.com/repos/testowner/testrepo/pulls/11"}},
				{"number": 12, "title": "Login docs", "html_url": "https://github.com/testowner/testrepo/issues/12", "state": "closed"}
			]
		}`))
		if writeErr != nil {
			t.Errorf("Error writing response in mock server: %v", writeErr)
		}
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	issues, err := client.SearchIssues(context.Background(), testRepo, "login bug")
	if err != nil {
		t.Fatalf("SearchIssues returned error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues after PR filtering, got %d", len(issues))
	}
	if issues[0].Number != 10 || issues[1].Number != 12 {
		t.Errorf("Unexpected issue numbers: %d, %d", issues[0].Number, issues[1].Number)
	}
	if issues[1].State != "closed" {
		t.Errorf("Expected closed state, got %s", issues[1].State)
	}
}

func TestCreateIssueAppendsAttributionFooter(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"login": "testuser", "name": "Test User"}`))
	})

	var gotBody struct {
		Title  string   `json:"title"`
		Body   string   `json:"body"`
		Labels []string `json:"labels"`
	}
	mux.HandleFunc("/repos/testowner/testrepo/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"number": 42,
			"title": "New idea",
			"html_url": "https://github.com/testowner/testrepo/issues/42"
		}`))
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	result, err := client.CreateIssue(context.Background(), testRepo, "New idea", "Some note text", []string{"bug"})
	if err != nil {
		t.Fatalf("CreateIssue returned error: %v", err)
	}
	if result.Number != 42 {
		t.Errorf("Issue number mismatch, got %d, want %d", result.Number, 42)
	}
	if result.URL != "https://github.com/testowner/testrepo/issues/42" {
		t.Errorf("Unexpected issue URL: %s", result.URL)
	}

	if !strings.HasPrefix(gotBody.Body, "Some note text\n\n---\n*Created via Quick Notes by Test User at ") {
		t.Errorf("Body missing attribution footer: %q", gotBody.Body)
	}
	if len(gotBody.Labels) != 1 || gotBody.Labels[0] != "bug" {
		t.Errorf("Unexpected labels: %v", gotBody.Labels)
	}
}

func TestCreateCommentAppendsAttributionFooter(t *testing.T) {
	mux := http.NewServeMux()

	// No name set: attribution falls back to the login
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"login": "testuser"}`))
	})

	var gotBody struct {
		Body string `json:"body"`
	}
	mux.HandleFunc("/repos/testowner/testrepo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": 555,
			"html_url": "https://github.com/testowner/testrepo/issues/7#issuecomment-555",
			"created_at": "2024-05-01T10:00:00Z"
		}`))
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	result, err := client.CreateComment(context.Background(), testRepo, 7, "Follow-up note")
	if err != nil {
		t.Fatalf("CreateComment returned error: %v", err)
	}
	if result.ID != 555 {
		t.Errorf("Comment ID mismatch, got %d, want %d", result.ID, 555)
	}

	if !strings.HasPrefix(gotBody.Body, "Follow-up note\n\n---\n*Added via Quick Notes by testuser at ") {
		t.Errorf("Body missing attribution footer: %q", gotBody.Body)
	}
}

func TestCreateCommentUnknownUserAttribution(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	})

	var gotBody struct {
		Body string `json:"body"`
	}
	mux.HandleFunc("/repos/testowner/testrepo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "html_url": "u", "created_at": "2024-05-01T10:00:00Z"}`))
	})

	server, client := mockGitHubServer(t, mux)
	defer server.Close()

	if _, err := client.CreateComment(context.Background(), testRepo, 7, "note"); err != nil {
		t.Fatalf("CreateComment returned error: %v", err)
	}
	if !strings.Contains(gotBody.Body, "Added via Quick Notes by Unknown User at ") {
		t.Errorf("Expected Unknown User attribution, got %q", gotBody.Body)
	}
}
