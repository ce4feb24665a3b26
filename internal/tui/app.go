package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hellausefulsoftware/quicknotes/internal/config"
	"github.com/hellausefulsoftware/quicknotes/internal/logging"
	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/hellausefulsoftware/quicknotes/internal/store"
)

// KeyMap defines keybindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Select    key.Binding
	Save      key.Binding
	NewIssue  key.Binding
	OpenLink  key.Binding
	Settings  key.Binding
	Logout    key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save note"),
		),
		NewIssue: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new issue"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open link"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "settings"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
	}
}

// App is the main TUI application
type App struct {
	config   *config.Config
	state    *store.Store
	theme    *Theme
	keyMap   KeyMap
	help     help.Model
	screen   Screen
	screens  map[ScreenType]Screen
	width    int
	height   int
	ready    bool
	showHelp bool

	user   *models.User
	client GatewayClient
}

// NewApp creates a new TUI application
func NewApp(cfg *config.Config, state *store.Store) *App {
	theme := NewTheme(state.Theme())
	keyMap := DefaultKeyMap()
	helpModel := help.New()
	helpModel.Styles.ShortKey = theme.Bold
	helpModel.Styles.ShortDesc = theme.Body
	helpModel.Styles.ShortSeparator = theme.Faint

	// Logs go to stderr in TUI mode so they never break the interface
	if cfg != nil {
		cfg.Logging.Output = os.Stderr
		logging.Initialize(&logging.Config{
			Level:      logging.LogLevel(cfg.Logging.Level),
			Output:     cfg.Logging.Output,
			JSONFormat: cfg.Logging.JSONFormat,
		})
	}

	app := &App{
		config:  cfg,
		state:   state,
		theme:   theme,
		keyMap:  keyMap,
		help:    helpModel,
		screens: make(map[ScreenType]Screen),
	}

	app.screens[ScreenLogin] = NewLoginScreen(app)
	app.screens[ScreenNotes] = NewNotesScreen(app)
	app.screens[ScreenSettings] = NewSettingsScreen(app)

	// Every session starts unauthenticated; the login screen
	// revalidates any restored token before letting the user through.
	app.screen = app.screens[ScreenLogin]

	return app
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.screen.Init()
}

// Update handles UI updates
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keyMap.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keyMap.Help):
			a.showHelp = !a.showHelp
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true

	case ChangeScreenMsg:
		if screen, ok := a.screens[msg.Screen]; ok {
			a.screen = screen
			return a, screen.Init()
		}
	}

	// Update the current screen
	newScreen, cmd := a.screen.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if s, ok := newScreen.(Screen); ok && s != a.screen {
		a.screen = s
	}

	return a, tea.Batch(cmds...)
}

// View renders the UI
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	content := a.screen.View()

	if a.showHelp {
		helpView := a.help.ShortHelpView(a.screen.ShortHelp())
		return lipgloss.JoinVertical(lipgloss.Left, content, "\n", helpView)
	}

	return content
}

// GetTheme returns the theme
func (a *App) GetTheme() *Theme {
	return a.theme
}

// SetThemeVariant switches between the light and dark palettes and
// persists the preference.
func (a *App) SetThemeVariant(variant string) error {
	if err := a.state.SetTheme(variant); err != nil {
		return err
	}
	a.theme = NewTheme(variant)
	return nil
}

// GetKeyMap returns the keymap
func (a *App) GetKeyMap() KeyMap {
	return a.keyMap
}

// GetConfig returns the config
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetStore returns the persisted state store
func (a *App) GetStore() *store.Store {
	return a.state
}

// GetWidth returns the terminal width
func (a *App) GetWidth() int {
	return a.width
}

// GetHeight returns the terminal height
func (a *App) GetHeight() int {
	return a.height
}

// Repo returns the active repository: persisted settings first,
// configured defaults otherwise.
func (a *App) Repo() models.RepositoryRef {
	return a.state.Repo(a.config.Repo())
}

// User returns the authenticated user, or nil before login.
func (a *App) User() *models.User {
	return a.user
}

// Client returns the gateway client for the current session, or nil
// before login.
func (a *App) Client() GatewayClient {
	return a.client
}

// BeginSession installs the validated credential for this session.
func (a *App) BeginSession(user *models.User, client GatewayClient) {
	a.user = user
	a.client = client
}

// EndSession clears the session and the persisted credential. The
// repository and theme settings survive logout of the credential alone;
// an explicit logout wipes everything.
func (a *App) EndSession(wipe bool) {
	a.user = nil
	a.client = nil
	var err error
	if wipe {
		err = a.state.Clear()
	} else {
		err = a.state.ClearToken()
	}
	if err != nil {
		logging.Warn("Failed to clear persisted state", "error", err)
	}
}

// ChangeScreen changes the current screen
func (a *App) ChangeScreen(screenType ScreenType) tea.Cmd {
	return func() tea.Msg {
		return ChangeScreenMsg{Screen: screenType}
	}
}

// Run runs the TUI application
func Run(cfg *config.Config) error {
	state, err := store.Open(store.DefaultPath())
	if err != nil {
		return fmt.Errorf("error loading persisted state: %w", err)
	}

	app := NewApp(cfg, state)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
