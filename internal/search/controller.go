// Package search turns free-text keystrokes into a repository-scoped
// issue suggestion list without request storms or races between
// overlapping queries. The controller is pure state driven by the UI
// event loop; scheduling the quiet-period timer and running the network
// call are the caller's job.
package search

import (
	"strings"
	"time"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// DebounceInterval is the quiet period measured from the last keystroke.
const DebounceInterval = 300 * time.Millisecond

// Controller tracks the active query and the generation of the most
// recently issued request. Each keystroke bumps the generation, which
// invalidates both pending timers and in-flight completions: timer
// cancellation avoids extra calls, the generation check on Accept is
// the correctness backstop against calls already on the wire.
type Controller struct {
	generation uint64
	query      string
	results    []models.Issue
	searching  bool
}

// New creates an empty controller.
func New() *Controller {
	return &Controller{}
}

// Change registers a new query string. It returns the generation to
// schedule a debounce timer for, and whether a timer is wanted at all.
// An empty or whitespace-only query clears results and the searching
// flag synchronously and schedules nothing.
func (c *Controller) Change(query string) (gen uint64, schedule bool) {
	c.generation++

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		c.query = ""
		c.results = nil
		c.searching = false
		return 0, false
	}

	c.query = trimmed
	c.searching = true
	return c.generation, true
}

// Fire is called when a debounce timer elapses. Only the latest
// generation may fire; a stale timer returns ok=false and no request
// must be issued for it.
func (c *Controller) Fire(gen uint64) (query string, ok bool) {
	if gen != c.generation || c.query == "" {
		return "", false
	}
	return c.query, true
}

// Accept commits a completed result set if and only if it belongs to
// the latest issued generation. Stale completions, however late they
// arrive, never overwrite newer results.
func (c *Controller) Accept(gen uint64, issues []models.Issue) bool {
	if gen != c.generation {
		return false
	}
	c.results = issues
	c.searching = false
	return true
}

// Fail records a failed request. Search failures are silent: the only
// visible effect is an empty suggestion list.
func (c *Controller) Fail(gen uint64) {
	if gen != c.generation {
		return
	}
	c.results = nil
	c.searching = false
}

// Clear resets the controller, invalidating any pending timer or
// in-flight request. Used on selection, teardown, and logout.
func (c *Controller) Clear() {
	c.generation++
	c.query = ""
	c.results = nil
	c.searching = false
}

// Results returns the current suggestion list, newest activity first.
func (c *Controller) Results() []models.Issue {
	return c.results
}

// Searching reports whether a request is scheduled or in flight.
func (c *Controller) Searching() bool {
	return c.searching
}

// Query returns the trimmed query bound to the latest generation.
func (c *Controller) Query() string {
	return c.query
}

// ComposeQuery builds the search expression sent to GitHub for the
// given repository and free text.
func ComposeQuery(repo models.RepositoryRef, query string) string {
	return "repo:" + repo.String() + " " + query + " in:title,body"
}
