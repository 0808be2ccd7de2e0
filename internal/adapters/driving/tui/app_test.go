package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

func sampleRecord() *domain.VoucherRecord {
	rec := domain.NewVoucherRecord()
	rec.CheckIn = "2025/09/01"
	rec.VoucherNumber = "TV-1"
	rec.LineItems = []domain.LineItem{
		domain.NewLineItem("Accommodation", 2, decimal.RequireFromString("1200.00")),
	}
	return &rec
}

// newLoadedApp returns an app that has parsed sampleRecord and is showing
// the review form.
func newLoadedApp(t *testing.T, invoice *mockInvoiceService) (*App, string) {
	t.Helper()
	output := filepath.Join(t.TempDir(), "voucher.voucher.json")
	ports := &Ports{Voucher: &mockVoucherService{record: sampleRecord()}}
	if invoice != nil {
		ports.Invoice = invoice
	}
	app, err := NewApp(ports, "voucher.pdf", output)
	require.NoError(t, err)
	app.SetDimensions(200, 60)

	app.Update(app.loadCmd()())
	require.Equal(t, messages.ViewReview, app.CurrentView())
	return app, output
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Voucher: &mockVoucherService{}}, "v.pdf", "v.json")

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewLoading, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Nil(t, app.Record())
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		source  string
		output  string
		wantErr error
	}{
		{"nil ports", nil, "v.pdf", "v.json", ErrInvalidPorts},
		{"missing voucher", &Ports{}, "v.pdf", "v.json", ErrMissingVoucherService},
		{"missing source", &Ports{Voucher: &mockVoucherService{}}, "", "v.json", ErrMissingSource},
		{"missing output", &Ports{Voucher: &mockVoucherService{}}, "v.pdf", "", ErrMissingOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApp(tt.ports, tt.source, tt.output)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, app)
		})
	}
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(&Ports{Voucher: &mockVoucherService{}}, "v.pdf", "v.json")

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(&Ports{Voucher: &mockVoucherService{}}, "v.pdf", "v.json")

	assert.NotNil(t, app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(&Ports{Voucher: &mockVoucherService{}}, "v.pdf", "v.json")

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(&Ports{Voucher: &mockVoucherService{}}, "v.pdf", "v.json")

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Parsing v.pdf")
}

func TestApp_LoadParsesPDF(t *testing.T) {
	voucher := &mockVoucherService{record: sampleRecord()}
	app, _ := NewApp(&Ports{Voucher: voucher}, "in/voucher.pdf", "out.json")
	app.SetDimensions(200, 60)

	msg := app.loadCmd()()
	app.Update(msg)

	assert.Equal(t, []string{"in/voucher.pdf"}, voucher.paths)
	assert.Equal(t, messages.ViewReview, app.CurrentView())
	assert.Equal(t, "TV-1", app.Record().VoucherNumber)
	assert.Contains(t, app.View(), "Review voucher: voucher.pdf")
}

func TestApp_LoadReadsSavedJSON(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "saved.JSON")
	data, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, data, 0o644))

	voucher := &mockVoucherService{}
	app, _ := NewApp(&Ports{Voucher: voucher}, source, filepath.Join(dir, "out.json"))
	app.SetDimensions(200, 60)

	app.Update(app.loadCmd()())

	assert.Empty(t, voucher.paths)
	assert.Equal(t, messages.ViewReview, app.CurrentView())
	assert.Equal(t, "2025/09/01", app.Record().CheckIn)
}

func TestApp_LoadFailure(t *testing.T) {
	tests := []struct {
		name   string
		source string
		parse  error
	}{
		{"parse error", "v.pdf", domain.ErrInputError},
		{"missing json", filepath.Join(t.TempDir(), "nope.json"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := NewApp(&Ports{Voucher: &mockVoucherService{err: tt.parse}}, tt.source, "out.json")
			app.SetDimensions(80, 24)

			app.Update(app.loadCmd()())

			assert.Equal(t, messages.ViewFailed, app.CurrentView())
			assert.ErrorIs(t, app.Err(), domain.ErrInputError)
			assert.Contains(t, app.View(), "Could not read")

			assert.NotNil(t, press(app, tea.KeyMsg{Type: tea.KeyEsc}))
		})
	}
}

func TestApp_EditAndSave(t *testing.T) {
	app, output := newLoadedApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")})
	assert.Equal(t, 1, app.statusBar.Edits())

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.NoError(t, app.Err())
	assert.True(t, app.Saved())
	assert.Contains(t, app.View(), "Saved "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var saved domain.VoucherRecord
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "2025/09/019", saved.CheckIn)
	assert.Len(t, saved.LineItems, 1)
	assert.Contains(t, string(data), `"invoice_total": 2400.00`)
}

func TestApp_SaveError(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	app.Update(messages.RecordSaved{Path: "x", Err: errors.New("read-only")})

	assert.False(t, app.Saved())
	assert.EqualError(t, app.Err(), "read-only")
	assert.Contains(t, app.View(), "Error: read-only")
}

func TestApp_Generate(t *testing.T) {
	invoices := &mockInvoiceService{}
	app, _ := newLoadedApp(t, invoices)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.Len(t, invoices.generated, 1)
	assert.True(t, invoices.opts[0].Render)
	assert.Equal(t, "TV-1", invoices.generated[0].VoucherNumber)
	require.NotNil(t, app.Invoice())
	assert.Equal(t, "INV-000600", app.Invoice().Number)
	assert.Contains(t, app.View(), "Generated INV-000600")
}

func TestApp_GenerateWithoutInvoiceService(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), ErrInvoicingUnavailable)
	assert.Nil(t, app.Invoice())
}

func TestApp_GenerateError(t *testing.T) {
	app, _ := newLoadedApp(t, &mockInvoiceService{err: domain.ErrRenderFailed})

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrRenderFailed)
}

func TestApp_Reset(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, "2025/09/01", app.Record().CheckIn)
	assert.Equal(t, 0, app.statusBar.Edits())
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "ctrl+s")

	// Typing in help does not reach the form.
	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	assert.Equal(t, "2025/09/01", app.Record().CheckIn)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewReview, app.CurrentView())
}

func TestApp_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newLoadedApp(t, nil)

			cmd := press(app, tt.key)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_TypingQDoesNotQuit(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, "2025/09/01q", app.Record().CheckIn)
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newLoadedApp(t, nil)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWriteRecord_Nil(t *testing.T) {
	err := writeRecord(filepath.Join(t.TempDir(), "x.json"), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
