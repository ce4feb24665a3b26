// Package composer holds the note draft and drives the save state
// machine: a note is either appended to an existing issue chosen from
// search suggestions or becomes the body of a brand new issue. The two
// destinations are mutually exclusive.
package composer

import (
	"errors"
	"strings"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
)

// State is the composer's position in the save state machine.
type State int

const (
	// Idle means no destination has been chosen yet.
	Idle State = iota
	// ExistingSelected means an issue was picked from the suggestions.
	ExistingSelected
	// NewIssueMode means a new issue title and labels are being composed.
	NewIssueMode
	// Saving means a save request is in flight.
	Saving
)

// Destination identifies where a save request goes.
type Destination int

const (
	// DestExistingIssue appends the note as a comment.
	DestExistingIssue Destination = iota
	// DestNewIssue opens a new issue with the note as its body.
	DestNewIssue
)

// SaveRequest carries everything a gateway call needs.
type SaveRequest struct {
	Destination Destination
	IssueNumber int
	Title       string
	Body        string
	Labels      []string
}

var (
	// ErrNoDestination is the user error for saving with neither an
	// issue selected nor a new issue being composed. Reachable, so it
	// is handled rather than assumed away.
	ErrNoDestination = errors.New("please select an issue or create a new one")
	// ErrNotReady means the enablement rule is not met and no network
	// call may be attempted.
	ErrNotReady = errors.New("note text and, for a new issue, a title are required")
)

// Composer is the note draft plus its chosen destination. Transient and
// in-memory only; it fully resets after a successful save.
type Composer struct {
	state State
	prior State

	note        string
	selected    *models.Issue
	title       string
	labels      []string
	labelFilter string
}

// New creates an idle composer with an empty draft.
func New() *Composer {
	return &Composer{state: Idle}
}

// State returns the current state.
func (c *Composer) State() State {
	return c.state
}

// SetNote updates the note text.
func (c *Composer) SetNote(text string) {
	c.note = text
}

// Note returns the note text.
func (c *Composer) Note() string {
	return c.note
}

// SelectIssue chooses an existing issue as the destination, leaving
// NewIssueMode if it was active. The caller clears the suggestion list.
func (c *Composer) SelectIssue(issue models.Issue) {
	if c.state == Saving {
		return
	}
	selected := issue
	c.selected = &selected
	c.state = ExistingSelected
}

// Selected returns the chosen issue, or nil.
func (c *Composer) Selected() *models.Issue {
	return c.selected
}

// ClearSelection drops the chosen issue and returns to Idle.
func (c *Composer) ClearSelection() {
	if c.state == Saving {
		return
	}
	c.selected = nil
	if c.state == ExistingSelected {
		c.state = Idle
	}
}

// ToggleNewIssue opens new-issue composition, or collapses back to Idle
// when already open, discarding the partially entered title and label
// choices. Opening clears any existing-issue selection; the caller
// clears the search query. Returns whether NewIssueMode is now active.
func (c *Composer) ToggleNewIssue() bool {
	if c.state == Saving {
		return false
	}
	if c.state == NewIssueMode {
		c.state = Idle
		c.title = ""
		c.labels = nil
		c.labelFilter = ""
		return false
	}
	c.selected = nil
	c.state = NewIssueMode
	return true
}

// SetTitle updates the new issue title.
func (c *Composer) SetTitle(title string) {
	c.title = title
}

// Title returns the new issue title.
func (c *Composer) Title() string {
	return c.title
}

// CanSave reports whether the enablement rule is met: non-blank note,
// and either an existing issue selected or a new issue with a
// non-blank title.
func (c *Composer) CanSave() bool {
	if strings.TrimSpace(c.note) == "" {
		return false
	}
	switch c.state {
	case ExistingSelected:
		return c.selected != nil
	case NewIssueMode:
		return strings.TrimSpace(c.title) != ""
	default:
		return false
	}
}

// BeginSave validates the draft and moves to Saving, returning the
// request to execute. Saving from Idle is a user error, not a panic.
func (c *Composer) BeginSave() (SaveRequest, error) {
	if c.state == Saving {
		return SaveRequest{}, ErrNotReady
	}
	if c.state == Idle {
		return SaveRequest{}, ErrNoDestination
	}
	if !c.CanSave() {
		return SaveRequest{}, ErrNotReady
	}

	c.prior = c.state
	c.state = Saving

	if c.prior == NewIssueMode {
		labels := make([]string, len(c.labels))
		copy(labels, c.labels)
		return SaveRequest{
			Destination: DestNewIssue,
			Title:       c.title,
			Body:        c.note,
			Labels:      labels,
		}, nil
	}

	return SaveRequest{
		Destination: DestExistingIssue,
		IssueNumber: c.selected.Number,
		Body:        c.note,
	}, nil
}

// CompleteSave records a successful save: the whole draft resets.
func (c *Composer) CompleteSave() {
	*c = Composer{state: Idle}
}

// FailSave records a failed save: the draft is preserved and the state
// returns to whatever it was before Save was invoked, so an unchanged
// retry issues the identical request.
func (c *Composer) FailSave() {
	if c.state != Saving {
		return
	}
	c.state = c.prior
}

// SetLabelFilter updates the label filter text.
func (c *Composer) SetLabelFilter(filter string) {
	c.labelFilter = filter
}

// LabelFilter returns the label filter text.
func (c *Composer) LabelFilter() string {
	return c.labelFilter
}

// FilterLabels narrows the candidate list by case-insensitive substring
// match on the label name, excluding labels already selected.
func (c *Composer) FilterLabels(available []models.Label) []models.Label {
	filter := strings.ToLower(strings.TrimSpace(c.labelFilter))

	var candidates []models.Label
	for _, label := range available {
		if c.hasLabel(label.Name) {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(label.Name), filter) {
			continue
		}
		candidates = append(candidates, label)
	}
	return candidates
}

// AddLabel adds a label to the selection and clears the filter text.
// The selection is a set: adding twice is a no-op.
func (c *Composer) AddLabel(name string) {
	c.labelFilter = ""
	if c.hasLabel(name) {
		return
	}
	c.labels = append(c.labels, name)
}

// RemoveLabel drops a label from the selection.
func (c *Composer) RemoveLabel(name string) {
	for i, l := range c.labels {
		if l == name {
			c.labels = append(c.labels[:i], c.labels[i+1:]...)
			return
		}
	}
}

// SelectedLabels returns the chosen label names in selection order.
func (c *Composer) SelectedLabels() []string {
	return c.labels
}

func (c *Composer) hasLabel(name string) bool {
	for _, l := range c.labels {
		if l == name {
			return true
		}
	}
	return false
}
