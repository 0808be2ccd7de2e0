package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// App is the root Bubble Tea model for reviewing one voucher.
// A PDF source is parsed through the voucher service; a .json source is
// loaded as a previously saved record.
type App struct {
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	reviewView *review.View
	statusBar  *status.Bar

	source string
	output string

	currentView messages.ViewType
	invoice     *domain.Invoice
	saved       bool
	err         error

	width  int
	height int
	ready  bool
}

// NewApp creates a review app for source that saves to output.
func NewApp(ports *Ports, source, output string) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPorts, err)
	}
	if source == "" {
		return nil, ErrMissingSource
	}
	if output == "" {
		return nil, ErrMissingOutput
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reviewView:  review.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		source:      source,
		output:      output,
		currentView: messages.ViewLoading,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("voucherbill - "+filepath.Base(a.source)),
		a.loadCmd(),
	)
}

// loadCmd parses or reads the source off the UI goroutine.
func (a *App) loadCmd() tea.Cmd {
	ctx, voucher, source := a.ctx, a.ports.Voucher, a.source
	return func() tea.Msg {
		if strings.EqualFold(filepath.Ext(source), ".json") {
			rec, err := readRecord(source)
			return messages.VoucherParsed{Path: source, Record: rec, Err: err}
		}
		rec, err := voucher.Parse(ctx, source)
		return messages.VoucherParsed{Path: source, Record: rec, Err: err}
	}
}

// saveCmd writes the edited record as indented JSON.
func (a *App) saveCmd() tea.Cmd {
	rec := a.reviewView.Record()
	output := a.output
	return func() tea.Msg {
		return messages.RecordSaved{Path: output, Err: writeRecord(output, rec)}
	}
}

// generateCmd produces and renders an invoice from the edited record.
func (a *App) generateCmd() tea.Cmd {
	if a.ports.Invoice == nil {
		return func() tea.Msg {
			return messages.InvoiceGenerated{Err: ErrInvoicingUnavailable}
		}
	}
	ctx, invoices := a.ctx, a.ports.Invoice
	rec := a.reviewView.Record()
	return func() tea.Msg {
		inv, err := invoices.Generate(ctx, rec, domain.GenerateOptions{Render: true})
		return messages.InvoiceGenerated{Invoice: inv, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.VoucherParsed:
		if msg.Err != nil {
			a.fail(msg.Err)
			a.currentView = messages.ViewFailed
			return a, nil
		}
		a.currentView = messages.ViewReview
		a.statusBar.Clear()
		logger.Debug("review: loaded %s", msg.Path)
		return a, a.reviewView.Load(filepath.Base(msg.Path), msg.Record)

	case messages.RecordSaved:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.reviewView.Commit()
		a.saved = true
		a.err = nil
		a.statusBar.SetState(status.StateSaved)
		a.statusBar.SetMessage("Saved " + msg.Path)
		a.statusBar.SetEdits(0)
		return a, nil

	case messages.InvoiceGenerated:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.invoice = msg.Invoice
		a.err = nil
		a.statusBar.SetState(status.StateSaved)
		text := "Generated " + msg.Invoice.Number
		if msg.Invoice.FilePath != "" {
			text += " (" + msg.Invoice.FilePath + ")"
		}
		a.statusBar.SetMessage(text)
		return a, nil

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewReview {
		var cmd tea.Cmd
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewLoading, messages.ViewFailed:
		if keymap.Matches(keyStr, a.keymap.Back) || keyStr == "q" {
			return a, tea.Quit
		}
		return a, nil

	case messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = messages.ViewReview
			a.refreshStatus()
		}
		return a, nil
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Back):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.Help):
		a.currentView = messages.ViewHelp
		a.statusBar.SetState(status.StateHelp)
		return a, nil
	case keymap.Matches(keyStr, a.keymap.Save):
		return a, a.saveCmd()
	case keymap.Matches(keyStr, a.keymap.Generate):
		return a, a.generateCmd()
	case keymap.Matches(keyStr, a.keymap.Reset):
		a.reviewView.Revert()
		a.refreshStatus()
		return a, nil
	}

	var cmd tea.Cmd
	a.reviewView, cmd = a.reviewView.Update(msg)
	a.refreshStatus()
	return a, cmd
}

// refreshStatus returns the status bar to the edit count.
func (a *App) refreshStatus() {
	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetMessage("")
	a.statusBar.SetEdits(a.reviewView.Edits())
}

func (a *App) fail(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
	logger.Warn("review: %v", err)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewLoading:
		body = a.styles.Muted.Render("Parsing " + a.source + "...")
	case messages.ViewFailed:
		body = a.styles.Error.Render(fmt.Sprintf("Could not read %s\n\n%v", a.source, a.err)) +
			"\n\n" + a.styles.Help.Render("[esc] quit")
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.reviewView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the keybinding reference.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-14s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Edited records are saved to " + a.output))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Record returns the record as currently edited, or nil before loading.
func (a *App) Record() *domain.VoucherRecord {
	return a.reviewView.Record()
}

// Invoice returns the last generated invoice.
func (a *App) Invoice() *domain.Invoice {
	return a.invoice
}

// Saved reports whether the record was saved at least once.
func (a *App) Saved() bool {
	return a.saved
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.reviewView.SetDimensions(width, height-1)
}

func readRecord(path string) (*domain.VoucherRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInputError, err)
	}
	var rec domain.VoucherRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInputError, path, err)
	}
	return &rec, nil
}

func writeRecord(path string, rec *domain.VoucherRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: no record loaded", domain.ErrInvalidInput)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
