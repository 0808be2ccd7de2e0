package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateLoading, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Edits())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		edits    int
		contains []string
	}{
		{"loading", StateLoading, "", 0, []string{"Parsing voucher"}},
		{"ready", StateReady, "", 0, []string{"Ready", "ctrl+s: save"}},
		{"one edit", StateReady, "", 1, []string{"1 unsaved edit"}},
		{"many edits", StateReady, "", 3, []string{"3 unsaved edits"}},
		{"saved", StateSaved, "Saved out.json", 0, []string{"Saved out.json"}},
		{"error with message", StateError, "boom", 0, []string{"Error: boom"}},
		{"error bare", StateError, "", 0, []string{"Error"}},
		{"help", StateHelp, "", 0, []string{"Help", "esc: back"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetEdits(tt.edits)

			view := bar.View()

			for _, c := range tt.contains {
				assert.Contains(t, view, c)
			}
		})
	}
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("x")
	bar.SetEdits(2)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Edits())
}
