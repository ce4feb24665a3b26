package tui

import (
	"context"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// GatewayClient is the slice of the GitHub gateway the TUI drives.
// *github.Client satisfies this.
type GatewayClient interface {
	GetAuthenticatedUser(ctx context.Context) (*models.User, error)
	ListLabels(ctx context.Context, repo models.RepositoryRef) ([]models.Label, error)
	SearchIssues(ctx context.Context, repo models.RepositoryRef, query string) ([]models.Issue, error)
	CreateIssue(ctx context.Context, repo models.RepositoryRef, title, body string, labels []string) (*models.IssueResult, error)
	CreateComment(ctx context.Context, repo models.RepositoryRef, issueNumber int, body string) (*models.CommentResult, error)
}

// ChangeScreenMsg is a message to change the current screen
type ChangeScreenMsg struct {
	Screen ScreenType
}

// tokenValidatedMsg reports the outcome of the whoami round trip for a
// token, whether typed in or restored from the state file.
type tokenValidatedMsg struct {
	token  string
	user   *models.User
	client GatewayClient
	err    error
}

// labelsLoadedMsg carries the repository label set. A fetch failure
// only yields an empty set; there is no error surface for it.
type labelsLoadedMsg struct {
	labels []models.Label
}

// searchDebounceMsg fires when a scheduled quiet period elapses.
type searchDebounceMsg struct {
	generation uint64
}

// searchResultMsg carries a completed search, tagged with the
// generation it was issued for.
type searchResultMsg struct {
	generation uint64
	issues     []models.Issue
	err        error
}

// saveResultMsg reports the outcome of a create-issue or add-comment
// call.
type saveResultMsg struct {
	message string
	url     string
	err     error
}

// notificationExpiredMsg dismisses a toast after its display period.
type notificationExpiredMsg struct {
	id int
}
