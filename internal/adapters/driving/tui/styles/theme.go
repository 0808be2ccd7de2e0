// Package styles provides colour themes and styling for the review form.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is used for section headings.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for labels and hints.
	Muted lipgloss.Color

	// Success marks settled balances and completed actions.
	Success lipgloss.Color

	// Warning marks fields that were not recovered.
	Warning lipgloss.Color

	// Error indicates problems and outstanding balances.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2E7D32"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the form header.
	Title lipgloss.Style

	// Section style for group headings inside the form.
	Section lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Label style for field labels.
	Label lipgloss.Style

	// FocusedLabel style for the label of the field being edited.
	FocusedLabel lipgloss.Style

	// Empty style for fields the parser did not recover.
	Empty lipgloss.Style

	// Money style for amounts in the line item table.
	Money lipgloss.Style

	// Total style for the invoice total row.
	Total lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			MarginTop(1),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(22),

		FocusedLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			Width(22),

		Empty: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Money: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Align(lipgloss.Right),

		Total: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
