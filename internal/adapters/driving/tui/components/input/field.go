// Package input provides labelled text fields for the review form.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a label and remembers the value it
// was loaded with, so edits can be detected and discarded.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	original  string
	width     int
}

// NewField creates an unfocused field.
func NewField(s *styles.Styles, label string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "not found"
	ti.CharLimit = 512
	ti.Width = 50

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the field.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the input on one line.
func (f *Field) View() string {
	label := f.styles.Label.Render(f.label)
	if f.Focused() {
		label = f.styles.FocusedLabel.Render(f.label)
	}

	value := f.textinput.View()
	if !f.Focused() && f.Value() == "" {
		value = f.styles.Empty.Render(f.textinput.Placeholder)
	}
	if f.Changed() {
		value += f.styles.Muted.Render(" *")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, value)
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// Load sets the value and records it as the unedited state.
func (f *Field) Load(value string) {
	f.original = value
	f.textinput.SetValue(value)
}

// SetValue sets the input value without touching the unedited state.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Changed reports whether the value differs from the loaded one.
func (f *Field) Changed() bool {
	return f.textinput.Value() != f.original
}

// Revert restores the loaded value.
func (f *Field) Revert() {
	f.textinput.SetValue(f.original)
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the field including its label.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - lipgloss.Width(f.styles.Label.Render("")) - 2
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}
