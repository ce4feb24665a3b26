package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/hellausefulsoftware/quicknotes/internal/auth"
	"github.com/hellausefulsoftware/quicknotes/internal/composer"
	"github.com/hellausefulsoftware/quicknotes/internal/github"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/hellausefulsoftware/quicknotes/internal/search"
)

const requestTimeout = 15 * time.Second

// validateToken performs the single whoami round trip that every token
// entry requires before the credential is trusted.
func validateToken(token string) tea.Cmd {
	return func() tea.Msg {
		client := github.NewClient(token)

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := auth.Validate(ctx, client)
		if err != nil {
			return tokenValidatedMsg{token: token, err: err}
		}
		return tokenValidatedMsg{token: token, user: user, client: client}
	}
}

// loadLabels fetches the label set for the active repository. Failures
// degrade silently to an empty set.
func loadLabels(client GatewayClient, repo models.RepositoryRef) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		labels, err := client.ListLabels(ctx, repo)
		if err != nil {
			logging.Warn("Failed to fetch labels", "repo", repo.String(), "error", err)
			return labelsLoadedMsg{}
		}
		return labelsLoadedMsg{labels: labels}
	}
}

// scheduleSearch starts the debounce quiet period for a generation.
func scheduleSearch(generation uint64) tea.Cmd {
	return tea.Tick(search.DebounceInterval, func(time.Time) tea.Msg {
		return searchDebounceMsg{generation: generation}
	})
}

// runSearch issues the search call for a fired generation. The result
// carries the generation so stale completions can be discarded.
func runSearch(client GatewayClient, repo models.RepositoryRef, query string, generation uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		issues, err := client.SearchIssues(ctx, repo, query)
		return searchResultMsg{generation: generation, issues: issues, err: err}
	}
}

// runSave executes a composed save request against the gateway.
func runSave(client GatewayClient, repo models.RepositoryRef, req composer.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if req.Destination == composer.DestNewIssue {
			result, err := client.CreateIssue(ctx, repo, req.Title, req.Body, req.Labels)
			if err != nil {
				return saveResultMsg{err: err}
			}
			return saveResultMsg{
				message: fmt.Sprintf("New issue #%d created successfully!", result.Number),
				url:     result.URL,
			}
		}

		result, err := client.CreateComment(ctx, repo, req.IssueNumber, req.Body)
		if err != nil {
			return saveResultMsg{err: err}
		}
		return saveResultMsg{
			message: fmt.Sprintf("Comment added to issue #%d successfully!", req.IssueNumber),
			url:     result.URL,
		}
	}
}

// expireNotification dismisses a toast after three seconds.
func expireNotification(id int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}

// openInBrowser opens the linked GitHub resource from a notification.
func openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			logging.Warn("Failed to open browser", "url", url, "error", err)
		}
		return nil
	}
}
