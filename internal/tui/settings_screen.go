package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/hellausefulsoftware/quicknotes/internal/store"
)

// Settings fields in tab order.
const (
	settingsFocusOwner = iota
	settingsFocusName
	settingsFocusTheme
)

// SettingsScreen edits the target repository and the color theme, and
// hosts logout. Repository changes persist immediately; the notes
// screen picks them up when it reloads.
type SettingsScreen struct {
	BaseScreen
	ownerInput textinput.Model
	nameInput  textinput.Model
	focus      int
	status     string
	statusErr  bool
}

// NewSettingsScreen creates a new settings screen
func NewSettingsScreen(app *App) *SettingsScreen {
	ownerInput := textinput.New()
	ownerInput.Placeholder = "Repository owner"
	ownerInput.Width = 40

	nameInput := textinput.New()
	nameInput.Placeholder = "Repository name"
	nameInput.Width = 40

	return &SettingsScreen{
		BaseScreen: NewBaseScreen(app, "Settings"),
		ownerInput: ownerInput,
		nameInput:  nameInput,
	}
}

// Init initializes the settings screen with the active repository.
func (s *SettingsScreen) Init() tea.Cmd {
	repo := s.app.Repo()
	s.ownerInput.SetValue(repo.Owner)
	s.nameInput.SetValue(repo.Name)
	s.status = ""
	s.statusErr = false
	s.setFocus(settingsFocusOwner)
	return textinput.Blink
}

// Update handles UI updates for the settings screen
func (s *SettingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.updateFocusedInput(msg)
	}

	keyMap := s.app.GetKeyMap()
	switch {
	case key.Matches(keyMsg, keyMap.Back):
		return s, s.app.ChangeScreen(ScreenNotes)

	case key.Matches(keyMsg, keyMap.Logout):
		s.app.EndSession(true)
		return s, s.app.ChangeScreen(ScreenLogin)

	case key.Matches(keyMsg, keyMap.NextField):
		s.setFocus((s.focus + 1) % 3)
		return s, nil

	case key.Matches(keyMsg, keyMap.PrevField):
		s.setFocus((s.focus + 2) % 3)
		return s, nil

	case key.Matches(keyMsg, keyMap.Select):
		if s.focus == settingsFocusTheme {
			s.toggleTheme()
			return s, nil
		}
		s.saveRepo()
		return s, nil
	}

	return s, s.updateFocusedInput(msg)
}

func (s *SettingsScreen) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case settingsFocusOwner:
		s.ownerInput, cmd = s.ownerInput.Update(msg)
	case settingsFocusName:
		s.nameInput, cmd = s.nameInput.Update(msg)
	}
	return cmd
}

func (s *SettingsScreen) setFocus(focus int) {
	s.focus = focus
	s.ownerInput.Blur()
	s.nameInput.Blur()
	switch focus {
	case settingsFocusOwner:
		s.ownerInput.Focus()
	case settingsFocusName:
		s.nameInput.Focus()
	}
}

// saveRepo persists the repository setting. Both parts are required.
func (s *SettingsScreen) saveRepo() {
	owner := strings.TrimSpace(s.ownerInput.Value())
	name := strings.TrimSpace(s.nameInput.Value())

	repo := models.RepositoryRef{Owner: owner, Name: name}
	if err := s.app.GetStore().SetRepo(repo); err != nil {
		s.status = "Both owner and name are required"
		s.statusErr = true
		return
	}
	s.status = "Repository saved: " + owner + "/" + name
	s.statusErr = false
}

func (s *SettingsScreen) toggleTheme() {
	variant := store.ThemeDark
	if s.app.GetStore().Theme() == store.ThemeDark {
		variant = store.ThemeLight
	}
	if err := s.app.SetThemeVariant(variant); err != nil {
		logging.Warn("Failed to persist theme", "error", err)
		return
	}
	s.status = "Theme: " + variant
	s.statusErr = false
}

// View renders the settings screen
func (s *SettingsScreen) View() string {
	theme := s.app.GetTheme()

	var b strings.Builder
	b.WriteString(s.RenderTitle())
	b.WriteString("\n\n")

	b.WriteString(s.label(theme, "Repository owner", settingsFocusOwner))
	b.WriteString("\n")
	b.WriteString(s.ownerInput.View())
	b.WriteString("\n\n")

	b.WriteString(s.label(theme, "Repository name", settingsFocusName))
	b.WriteString("\n")
	b.WriteString(s.nameInput.View())
	b.WriteString("\n")
	b.WriteString(theme.Faint.Render("enter to save"))
	b.WriteString("\n\n")

	b.WriteString(s.label(theme, "Theme", settingsFocusTheme))
	b.WriteString("\n")
	themeLine := s.app.GetStore().Theme() + " (enter to toggle)"
	if s.focus == settingsFocusTheme {
		b.WriteString(theme.SelectedItem.Render(themeLine))
	} else {
		b.WriteString(theme.UnselectedItem.Render(themeLine))
	}
	b.WriteString("\n\n")

	if s.status != "" {
		style := theme.SuccessToast
		if s.statusErr {
			style = theme.ErrorToast
		}
		b.WriteString(style.Render(s.status))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Faint.Render("ctrl+l to log out • esc to go back"))
	b.WriteString("\n\n")
	b.WriteString(s.RenderFooter())

	return lipgloss.NewStyle().Width(s.app.GetWidth()).Align(lipgloss.Left).Render(b.String())
}

func (s *SettingsScreen) label(theme *Theme, text string, field int) string {
	if s.focus == field {
		return theme.FocusedLabel.Render(text)
	}
	return theme.Body.Render(text)
}

// ShortHelp returns keybindings to be shown in the help menu
func (s *SettingsScreen) ShortHelp() []key.Binding {
	keyMap := s.app.GetKeyMap()
	return []key.Binding{
		keyMap.NextField,
		keyMap.Select,
		keyMap.Logout,
		keyMap.Back,
		keyMap.Quit,
	}
}
