package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v45/github"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"golang.org/x/oauth2"
)

// searchPageSize caps suggestion lists; the request asks GitHub to sort
// by last update so the freshest issues surface first.
const searchPageSize = 5

// IsUnauthorized reports whether err is a GitHub 401. A 401 on any call
// means the credential has been revoked and must not be reused.
func IsUnauthorized(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Client handles GitHub API interactions for the quick-notes operations
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub client authenticated with the given token
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// GetAuthenticatedUser confirms the token is live and returns the account
// behind it. A non-nil error means the credential must not be trusted.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*models.User, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}

	return &models.User{
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		Email:     user.GetEmail(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// ListLabels fetches every label defined in the repository
func (c *Client) ListLabels(ctx context.Context, repo models.RepositoryRef) ([]models.Label, error) {
	var allLabels []models.Label
	opts := &github.ListOptions{
		PerPage: 100,
	}

	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}

		for _, label := range labels {
			allLabels = append(allLabels, models.Label{
				Name:        label.GetName(),
				Color:       label.GetColor(),
				Description: label.GetDescription(),
			})
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return allLabels, nil
}

// SearchIssues searches issues in the repository by free text, matching
// title and body, newest activity first. GitHub's search endpoint
// conflates issues and pull requests, so PRs are filtered out here.
func (c *Client) SearchIssues(ctx context.Context, repo models.RepositoryRef, query string) ([]models.Issue, error) {
	searchQuery := fmt.Sprintf("repo:%s/%s %s in:title,body", repo.Owner, repo.Name, query)

	opts := &github.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: searchPageSize,
		},
	}

	logging.Debug("Searching issues", "query", searchQuery)

	result, _, err := c.client.Search.Issues(ctx, searchQuery, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	issues := make([]models.Issue, 0, len(result.Issues))
	for _, item := range result.Issues {
		if item.PullRequestLinks != nil {
			// This is a PR, not an issue
			continue
		}
		issues = append(issues, models.Issue{
			Number:    item.GetNumber(),
			Title:     item.GetTitle(),
			URL:       item.GetHTMLURL(),
			State:     item.GetState(),
			UpdatedAt: item.GetUpdatedAt(),
		})
		if len(issues) == searchPageSize {
			break
		}
	}

	return issues, nil
}

// CreateIssue opens a new issue with the given title, note body, and
// labels. An attribution footer naming the acting user is appended to
// the body before sending.
func (c *Client) CreateIssue(ctx context.Context, repo models.RepositoryRef, title, body string, labels []string) (*models.IssueResult, error) {
	enhancedBody := body + c.attributionFooter(ctx, "Created")

	if labels == nil {
		labels = []string{}
	}

	issue, _, err := c.client.Issues.Create(ctx, repo.Owner, repo.Name, &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(enhancedBody),
		Labels: &labels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return &models.IssueResult{
		Number: issue.GetNumber(),
		URL:    issue.GetHTMLURL(),
		Title:  issue.GetTitle(),
	}, nil
}

// CreateComment adds the note as a comment on an existing issue, with
// the same attribution footer convention as CreateIssue.
func (c *Client) CreateComment(ctx context.Context, repo models.RepositoryRef, issueNumber int, body string) (*models.CommentResult, error) {
	enhancedBody := body + c.attributionFooter(ctx, "Added")

	comment, _, err := c.client.Issues.CreateComment(ctx, repo.Owner, repo.Name, issueNumber, &github.IssueComment{
		Body: github.String(enhancedBody),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue comment: %w", err)
	}

	return &models.CommentResult{
		ID:        comment.GetID(),
		URL:       comment.GetHTMLURL(),
		CreatedAt: comment.GetCreatedAt(),
	}, nil
}

// attributionFooter builds the trailer identifying who wrote the note
// and when. A failed user lookup degrades to "Unknown User" rather than
// blocking the save.
func (c *Client) attributionFooter(ctx context.Context, action string) string {
	actor := "Unknown User"
	if user, err := c.GetAuthenticatedUser(ctx); err == nil {
		actor = user.DisplayName()
	} else {
		logging.Warn("Could not get user info for attribution", "error", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("\n\n---\n*%s via Quick Notes by %s at %s*", action, actor, timestamp)
}
