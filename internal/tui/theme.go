package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hellausefulsoftware/quicknotes/internal/store"
)

// Theme defines the application color scheme. The palette is
// colorblind-friendly and comes in a light and a dark variant, selected
// by the persisted display preference.
type Theme struct {
	// Primary colors
	Blue      lipgloss.Color
	Yellow    lipgloss.Color
	Text      lipgloss.Color
	Surface   lipgloss.Color
	LightBlue lipgloss.Color
	Orange    lipgloss.Color

	// Semantic colors (derived from primary)
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// Base styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Bold     lipgloss.Style
	Faint    lipgloss.Style

	// Component styles
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	FocusedLabel   lipgloss.Style
	LabelChip      lipgloss.Style
	SelectedChip   lipgloss.Style
	SuccessToast   lipgloss.Style
	ErrorToast     lipgloss.Style
	OpenState      lipgloss.Style
	ClosedState    lipgloss.Style
	BorderColor    lipgloss.Color
}

// NewTheme creates the theme for the given display preference
func NewTheme(variant string) *Theme {
	t := &Theme{
		// Colorblind-friendly palette: distinctive in all common
		// color vision deficiencies.
		Blue:      "#0072B2",
		Yellow:    "#E69F00",
		LightBlue: "#56B4E9",
		Orange:    "#D55E00",

		Success: "#009E73",
		Warning: "#E69F00",
		Error:   "#D55E00",
		Muted:   "#999999",

		BorderColor: "#56B4E9",
	}

	if variant == store.ThemeLight {
		t.Text = "#1A1A1A"
		t.Surface = "#FFFFFF"
	} else {
		t.Text = "#EDEDED"
		t.Surface = "#1A1A1A"
	}

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Blue).
		MarginBottom(1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.LightBlue).
		MarginBottom(1)

	t.Body = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Bold = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	t.Faint = lipgloss.NewStyle().
		Faint(true).
		Foreground(t.Muted)

	t.SelectedItem = lipgloss.NewStyle().
		Bold(true).
		Background(t.LightBlue).
		Foreground(t.Surface).
		Padding(0, 1)

	t.UnselectedItem = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	t.FocusedLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Blue)

	t.LabelChip = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Muted).
		Padding(0, 1).
		MarginRight(1)

	t.SelectedChip = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Surface).
		Background(t.Blue).
		Padding(0, 1).
		MarginRight(1)

	t.SuccessToast = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Surface).
		Background(t.Success).
		Padding(0, 1)

	t.ErrorToast = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Surface).
		Background(t.Error).
		Padding(0, 1)

	t.OpenState = lipgloss.NewStyle().
		Foreground(t.Success)

	t.ClosedState = lipgloss.NewStyle().
		Foreground(t.Muted)

	return t
}
