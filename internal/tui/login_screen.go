package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hellausefulsoftware/quicknotes/internal/auth"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
)

// LoginScreen collects a personal access token and validates it with a
// single whoami round trip. A token restored from the state file goes
// through exactly the same validation: a persisted credential is never
// trusted without revalidation, since tokens can be revoked externally
// at any time.
type LoginScreen struct {
	BaseScreen
	tokenInput textinput.Model
	validating bool
	errText    string
}

// NewLoginScreen creates a new login screen
func NewLoginScreen(app *App) *LoginScreen {
	tokenInput := textinput.New()
	tokenInput.Placeholder = "GitHub personal access token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.EchoCharacter = '•'
	tokenInput.Width = 50
	tokenInput.Focus()

	return &LoginScreen{
		BaseScreen: NewBaseScreen(app, "Quick Notes"),
		tokenInput: tokenInput,
	}
}

// Init initializes the login screen. If a credential can be restored
// from the state file or the environment it is validated immediately.
func (l *LoginScreen) Init() tea.Cmd {
	l.errText = ""
	l.validating = false
	l.tokenInput.Reset()

	token, err := auth.Resolve(
		auth.NewStoreProvider(l.app.GetStore()),
		&auth.EnvProvider{},
		auth.NewStaticProvider(l.app.GetConfig().GitHub.Token),
	)
	if err == nil {
		l.validating = true
		return tea.Batch(textinput.Blink, validateToken(token))
	}

	return textinput.Blink
}

// Update handles UI updates for the login screen
func (l *LoginScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if l.validating {
			return l, nil
		}
		if key.Matches(msg, l.app.keyMap.Select) {
			token := l.tokenInput.Value()
			if token == "" {
				l.errText = "Enter a token to sign in"
				return l, nil
			}
			l.validating = true
			l.errText = ""
			return l, validateToken(token)
		}

	case tokenValidatedMsg:
		l.validating = false
		if msg.err != nil {
			// Whether typed or restored, a failing token is dropped
			// from the store so no further calls are attempted with it.
			logging.Warn("Token validation failed", "error", msg.err)
			if err := l.app.GetStore().ClearToken(); err != nil {
				logging.Warn("Failed to clear stored token", "error", err)
			}
			l.errText = "Invalid token"
			return l, nil
		}

		if err := l.app.GetStore().SetToken(msg.token); err != nil {
			logging.Warn("Failed to persist token", "error", err)
		}
		l.app.BeginSession(msg.user, msg.client)
		return l, l.app.ChangeScreen(ScreenNotes)
	}

	var cmd tea.Cmd
	l.tokenInput, cmd = l.tokenInput.Update(msg)
	return l, cmd
}

// View renders the login screen
func (l *LoginScreen) View() string {
	theme := l.app.GetTheme()

	content := l.RenderTitle() + "\n"
	content += theme.Subtitle.Render("Append notes to "+l.app.Repo().String()) + "\n\n"

	if l.validating {
		content += theme.Body.Render("Validating token...") + "\n\n"
	} else {
		content += theme.Body.Render("Token: ") + l.tokenInput.View() + "\n\n"
		if l.errText != "" {
			content += theme.ErrorToast.Render(l.errText) + "\n\n"
		}
		content += theme.Faint.Render("Press enter to sign in") + "\n\n"
	}

	content += l.RenderFooter()

	return lipgloss.NewStyle().Width(l.app.GetWidth()).Align(lipgloss.Left).Render(content)
}

// ShortHelp returns keybindings to be shown in the help menu
func (l *LoginScreen) ShortHelp() []key.Binding {
	return []key.Binding{
		l.app.keyMap.Select,
		l.app.keyMap.Help,
		l.app.keyMap.Quit,
	}
}
