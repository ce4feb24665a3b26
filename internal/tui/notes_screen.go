package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hellausefulsoftware/quicknotes/internal/composer"
	"github.com/hellausefulsoftware/quicknotes/internal/github"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/hellausefulsoftware/quicknotes/internal/search"
)

// Focusable fields on the notes screen, in tab order.
const (
	focusNote = iota
	focusSearch
	focusTitle
	focusLabels
)

// notification is a toast shown after a save attempt.
type notification struct {
	id      int
	message string
	url     string
	isError bool
}

// NotesScreen is the quick-notes composer: a note textarea, a debounced
// issue search with suggestions, and an optional new-issue form.
type NotesScreen struct {
	BaseScreen

	noteInput   textarea.Model
	searchInput textinput.Model
	titleInput  textinput.Model
	filterInput textinput.Model

	comp     *composer.Composer
	searcher *search.Controller

	labels      []models.Label
	focus       int
	suggestion  int
	labelCursor int
	saving      bool

	toast    *notification
	toastSeq int
}

// NewNotesScreen creates a new notes screen
func NewNotesScreen(app *App) *NotesScreen {
	noteInput := textarea.New()
	noteInput.Placeholder = "Start typing your notes here... (ctrl+s to save)"
	noteInput.SetHeight(6)
	noteInput.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search for existing issues..."
	searchInput.Width = 50

	titleInput := textinput.New()
	titleInput.Placeholder = "Issue title..."
	titleInput.Width = 50

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter labels..."
	filterInput.Width = 30

	return &NotesScreen{
		BaseScreen:  NewBaseScreen(app, "Quick Notes"),
		noteInput:   noteInput,
		searchInput: searchInput,
		titleInput:  titleInput,
		filterInput: filterInput,
		comp:        composer.New(),
		searcher:    search.New(),
	}
}

// Init initializes the notes screen, loading the label set for the
// active repository. The draft survives a round trip to settings.
func (n *NotesScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if client := n.app.Client(); client != nil {
		cmds = append(cmds, loadLabels(client, n.app.Repo()))
	}
	return tea.Batch(cmds...)
}

// Update handles UI updates for the notes screen
func (n *NotesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case labelsLoadedMsg:
		n.labels = msg.labels
		return n, nil

	case searchDebounceMsg:
		// Only the latest generation may fire; stale timers are inert.
		query, ok := n.searcher.Fire(msg.generation)
		if !ok {
			return n, nil
		}
		return n, runSearch(n.app.Client(), n.app.Repo(), query, msg.generation)

	case searchResultMsg:
		if msg.err != nil {
			if github.IsUnauthorized(msg.err) {
				return n, n.endSessionUnauthorized()
			}
			// Silent degradation: failures only mean no suggestions.
			n.searcher.Fail(msg.generation)
			return n, nil
		}
		if n.searcher.Accept(msg.generation, msg.issues) {
			n.suggestion = 0
		}
		return n, nil

	case saveResultMsg:
		return n, n.finishSave(msg)

	case notificationExpiredMsg:
		if n.toast != nil && n.toast.id == msg.id {
			n.toast = nil
		}
		return n, nil

	case tea.KeyMsg:
		if n.saving {
			return n, nil
		}
		return n.handleKey(msg)
	}

	return n, n.updateFocusedInput(msg)
}

// handleKey routes keystrokes: screen-level accelerators first, then
// the focused input.
func (n *NotesScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyMap := n.app.GetKeyMap()

	switch {
	case key.Matches(msg, keyMap.Save):
		return n, n.startSave()

	case key.Matches(msg, keyMap.NewIssue):
		n.toggleNewIssue()
		return n, nil

	case key.Matches(msg, keyMap.Settings):
		return n, n.app.ChangeScreen(ScreenSettings)

	case key.Matches(msg, keyMap.OpenLink):
		if n.toast != nil && n.toast.url != "" {
			return n, openInBrowser(n.toast.url)
		}
		return n, nil

	case key.Matches(msg, keyMap.NextField):
		n.cycleFocus(1)
		return n, nil

	case key.Matches(msg, keyMap.PrevField):
		n.cycleFocus(-1)
		return n, nil

	case key.Matches(msg, keyMap.Back):
		if n.focus == focusSearch {
			// Clearing the search box empties suggestions synchronously
			// and cancels any pending quiet-period timer.
			n.searchInput.Reset()
			n.searcher.Clear()
			n.comp.ClearSelection()
		}
		return n, nil

	case key.Matches(msg, keyMap.Up), key.Matches(msg, keyMap.Down):
		delta := 1
		if key.Matches(msg, keyMap.Up) {
			delta = -1
		}
		if n.focus == focusSearch && len(n.searcher.Results()) > 0 {
			n.suggestion = clamp(n.suggestion+delta, 0, len(n.searcher.Results())-1)
			return n, nil
		}
		if n.focus == focusLabels {
			candidates := n.comp.FilterLabels(n.labels)
			if len(candidates) > 0 {
				n.labelCursor = clamp(n.labelCursor+delta, 0, len(candidates)-1)
			}
			return n, nil
		}

	case key.Matches(msg, keyMap.Select):
		if n.focus == focusSearch {
			n.selectSuggestion()
			return n, nil
		}
		if n.focus == focusLabels {
			n.pickLabel()
			return n, nil
		}
	}

	return n, n.updateFocusedInput(msg)
}

// updateFocusedInput forwards a message to the focused component and
// mirrors its value into the composer or search controller.
func (n *NotesScreen) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch n.focus {
	case focusNote:
		n.noteInput, cmd = n.noteInput.Update(msg)
		n.comp.SetNote(n.noteInput.Value())

	case focusSearch:
		before := n.searchInput.Value()
		n.searchInput, cmd = n.searchInput.Update(msg)
		if after := n.searchInput.Value(); after != before {
			// Every keystroke invalidates the previous timer; only a
			// non-blank query schedules a new one.
			gen, schedule := n.searcher.Change(after)
			n.suggestion = 0
			if schedule {
				return tea.Batch(cmd, scheduleSearch(gen))
			}
		}

	case focusTitle:
		n.titleInput, cmd = n.titleInput.Update(msg)
		n.comp.SetTitle(n.titleInput.Value())

	case focusLabels:
		before := n.filterInput.Value()
		n.filterInput, cmd = n.filterInput.Update(msg)
		if after := n.filterInput.Value(); after != before {
			n.comp.SetLabelFilter(after)
			n.labelCursor = 0
		}
	}

	return cmd
}

// cycleFocus moves focus through the visible fields.
func (n *NotesScreen) cycleFocus(delta int) {
	fields := []int{focusNote, focusSearch}
	if n.comp.State() == composer.NewIssueMode {
		fields = append(fields, focusTitle, focusLabels)
	}

	current := 0
	for i, f := range fields {
		if f == n.focus {
			current = i
			break
		}
	}
	n.setFocus(fields[(current+delta+len(fields))%len(fields)])
}

func (n *NotesScreen) setFocus(focus int) {
	n.focus = focus
	n.noteInput.Blur()
	n.searchInput.Blur()
	n.titleInput.Blur()
	n.filterInput.Blur()

	switch focus {
	case focusNote:
		n.noteInput.Focus()
	case focusSearch:
		n.searchInput.Focus()
	case focusTitle:
		n.titleInput.Focus()
	case focusLabels:
		n.filterInput.Focus()
	}
}

// selectSuggestion picks the highlighted issue as the destination.
func (n *NotesScreen) selectSuggestion() {
	results := n.searcher.Results()
	if len(results) == 0 {
		return
	}
	issue := results[clamp(n.suggestion, 0, len(results)-1)]

	n.comp.SelectIssue(issue)
	n.searcher.Clear()
	n.searchInput.SetValue(fmt.Sprintf("#%d %s", issue.Number, issue.Title))
	// Discard any half-typed new-issue title along with its input, so a
	// later reopened form never saves text the user can no longer see.
	n.titleInput.Reset()
	n.comp.SetTitle("")
}

// toggleNewIssue flips new-issue composition on or off.
func (n *NotesScreen) toggleNewIssue() {
	if n.comp.ToggleNewIssue() {
		// Opening clears any selection and the search query.
		n.searchInput.Reset()
		n.searcher.Clear()
		n.setFocus(focusTitle)
		return
	}
	n.titleInput.Reset()
	n.filterInput.Reset()
	if n.focus == focusTitle || n.focus == focusLabels {
		n.setFocus(focusNote)
	}
}

// pickLabel adds the highlighted candidate to the selection and clears
// the filter text.
func (n *NotesScreen) pickLabel() {
	candidates := n.comp.FilterLabels(n.labels)
	if len(candidates) == 0 {
		return
	}
	picked := candidates[clamp(n.labelCursor, 0, len(candidates)-1)]
	n.comp.AddLabel(picked.Name)
	n.filterInput.Reset()
	n.labelCursor = 0
}

// startSave validates the draft and launches the gateway call.
func (n *NotesScreen) startSave() tea.Cmd {
	if strings.TrimSpace(n.comp.Note()) == "" {
		// Save is disabled with an empty note; nothing is attempted.
		return nil
	}

	req, err := n.comp.BeginSave()
	if err == composer.ErrNoDestination {
		return n.showToast("Please select an issue or create a new one", "", true)
	}
	if err != nil {
		return nil
	}

	n.saving = true
	return runSave(n.app.Client(), n.app.Repo(), req)
}

// finishSave applies the save outcome: full reset on success, preserved
// draft on failure.
func (n *NotesScreen) finishSave(msg saveResultMsg) tea.Cmd {
	n.saving = false

	if msg.err != nil {
		n.comp.FailSave()
		if github.IsUnauthorized(msg.err) {
			return n.endSessionUnauthorized()
		}
		return n.showToast("Failed to save note. Please try again.", "", true)
	}

	n.comp.CompleteSave()
	n.noteInput.Reset()
	n.searchInput.Reset()
	n.titleInput.Reset()
	n.filterInput.Reset()
	n.searcher.Clear()
	n.setFocus(focusNote)

	return n.showToast(msg.message, msg.url, false)
}

// endSessionUnauthorized handles a 401 from a mid-session call: the
// credential has been revoked upstream, so it is destroyed and the
// user is sent back to the login screen.
func (n *NotesScreen) endSessionUnauthorized() tea.Cmd {
	logging.Warn("Credential rejected mid-session, signing out")
	n.app.EndSession(false)
	return n.app.ChangeScreen(ScreenLogin)
}

func (n *NotesScreen) showToast(message, url string, isError bool) tea.Cmd {
	n.toastSeq++
	n.toast = &notification{
		id:      n.toastSeq,
		message: message,
		url:     url,
		isError: isError,
	}
	return expireNotification(n.toastSeq)
}

// View renders the notes screen
func (n *NotesScreen) View() string {
	theme := n.app.GetTheme()
	width := max(n.app.GetWidth(), 40)

	var b strings.Builder

	b.WriteString(n.RenderTitle())
	b.WriteString("\n")
	if user := n.app.User(); user != nil {
		b.WriteString(theme.Subtitle.Render(user.DisplayName() + " → " + n.app.Repo().String()))
		b.WriteString("\n\n")
	}

	// Note editor
	b.WriteString(n.fieldLabel("Notes", focusNote))
	b.WriteString("\n")
	b.WriteString(n.noteInput.View())
	b.WriteString("\n\n")

	// Issue search
	b.WriteString(n.fieldLabel("Issue", focusSearch))
	b.WriteString("\n")
	b.WriteString(n.searchInput.View())
	b.WriteString("\n")
	b.WriteString(n.renderSuggestions(theme))

	// New issue form
	if n.comp.State() == composer.NewIssueMode {
		b.WriteString(n.renderNewIssueForm(theme))
	} else {
		b.WriteString(theme.Faint.Render("ctrl+n to create a new issue instead"))
		b.WriteString("\n")
	}

	// Save hint
	b.WriteString("\n")
	if n.saving {
		b.WriteString(theme.Bold.Render("Saving..."))
	} else if n.comp.CanSave() {
		label := "Save Note"
		if n.comp.State() == composer.NewIssueMode {
			label = "Create Issue"
		}
		b.WriteString(theme.Bold.Render(label + " (ctrl+s)"))
	} else {
		b.WriteString(theme.Faint.Render("Save disabled: write a note and pick a destination"))
	}
	b.WriteString("\n\n")

	if n.toast != nil {
		style := theme.SuccessToast
		if n.toast.isError {
			style = theme.ErrorToast
		}
		text := n.toast.message
		if n.toast.url != "" {
			text += "\n" + n.toast.url + "  (ctrl+o to open)"
		}
		b.WriteString(style.Render(wordwrap.String(text, width-4)))
		b.WriteString("\n\n")
	}

	b.WriteString(n.RenderFooter())

	return lipgloss.NewStyle().Width(width).Align(lipgloss.Left).Render(b.String())
}

func (n *NotesScreen) fieldLabel(text string, field int) string {
	theme := n.app.GetTheme()
	if n.focus == field {
		return theme.FocusedLabel.Render(text)
	}
	return theme.Body.Render(text)
}

func (n *NotesScreen) renderSuggestions(theme *Theme) string {
	var b strings.Builder

	if n.searcher.Searching() {
		b.WriteString(theme.Faint.Render("Searching..."))
		b.WriteString("\n\n")
		return b.String()
	}

	results := n.searcher.Results()
	if selected := n.comp.Selected(); selected != nil && len(results) == 0 {
		b.WriteString(theme.Body.Render("Selected: "))
		b.WriteString(theme.Bold.Render(fmt.Sprintf("#%d %s", selected.Number, selected.Title)))
		b.WriteString("\n\n")
		return b.String()
	}

	for i, issue := range results {
		line := fmt.Sprintf("#%d %s", issue.Number, issue.Title)
		if issue.State != "" {
			stateStyle := theme.OpenState
			if issue.State != "open" {
				stateStyle = theme.ClosedState
			}
			line += " " + stateStyle.Render("("+issue.State+")")
		}
		if i == n.suggestion && n.focus == focusSearch {
			b.WriteString(theme.SelectedItem.Render(line))
		} else {
			b.WriteString(theme.UnselectedItem.Render(line))
		}
		b.WriteString("\n")
	}
	if len(results) > 0 {
		b.WriteString(theme.Faint.Render("enter to select, esc to clear"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (n *NotesScreen) renderNewIssueForm(theme *Theme) string {
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render("Create New Issue"))
	b.WriteString("\n")
	b.WriteString(n.fieldLabel("Title", focusTitle))
	b.WriteString("\n")
	b.WriteString(n.titleInput.View())
	b.WriteString("\n\n")

	b.WriteString(n.fieldLabel("Labels", focusLabels))
	b.WriteString("\n")

	if selected := n.comp.SelectedLabels(); len(selected) > 0 {
		for _, name := range selected {
			b.WriteString(theme.SelectedChip.Render(name))
		}
		b.WriteString("\n")
	}

	b.WriteString(n.filterInput.View())
	b.WriteString("\n")

	candidates := n.comp.FilterLabels(n.labels)
	for i, label := range candidates {
		if i >= 8 {
			b.WriteString(theme.Faint.Render(fmt.Sprintf("… %d more", len(candidates)-i)))
			b.WriteString("\n")
			break
		}
		if i == n.labelCursor && n.focus == focusLabels {
			b.WriteString(theme.SelectedItem.Render(label.Name))
		} else {
			b.WriteString(theme.LabelChip.Render(label.Name))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

// ShortHelp returns keybindings to be shown in the help menu
func (n *NotesScreen) ShortHelp() []key.Binding {
	keyMap := n.app.GetKeyMap()
	return []key.Binding{
		keyMap.NextField,
		keyMap.Save,
		keyMap.NewIssue,
		keyMap.OpenLink,
		keyMap.Settings,
		keyMap.Help,
		keyMap.Quit,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
