// Package review provides the editable voucher record form.
package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/voucherbill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// tableHeight is the number of rows reserved below the form for line
// items and totals when the window is short.
const tableHeight = 8

// View is the review form. Scalar fields are editable; line items and
// totals are derived from the edited record and shown read-only.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	fields []*input.Field
	focus  int
	record *domain.VoucherRecord
	source string
	width  int
	height int
}

// NewView creates an empty review form.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fields := make([]*input.Field, len(formFields))
	for i, def := range formFields {
		fields[i] = input.NewField(s, def.label)
	}

	return &View{
		styles: s,
		keymap: km,
		fields: fields,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load fills the form from rec and focuses the first field.
// source names the voucher in the header.
func (v *View) Load(source string, rec *domain.VoucherRecord) tea.Cmd {
	if rec == nil {
		empty := domain.NewVoucherRecord()
		rec = &empty
	}
	v.record = cloneRecord(rec)
	v.source = source
	for i, def := range formFields {
		v.fields[i].Load(*def.ref(v.record))
		v.fields[i].Blur()
	}
	v.focus = 0
	return v.fields[0].Focus()
}

// Loaded reports whether a record has been loaded.
func (v *View) Loaded() bool {
	return v.record != nil
}

// Record returns a copy of the loaded record with the form edits applied.
// Editing a service or ancillary field rebuilds the line items; a new
// qty or rate without a new max total recomputes the total.
// Returns nil before Load.
func (v *View) Record() *domain.VoucherRecord {
	if v.record == nil {
		return nil
	}
	out := cloneRecord(v.record)
	edited := make(map[*string]bool)
	for i, def := range formFields {
		ref := def.ref(out)
		*ref = strings.TrimSpace(v.fields[i].Value())
		if v.fields[i].Changed() {
			edited[ref] = true
		}
	}

	if (edited[&out.Qty] || edited[&out.RateIncl]) && !edited[&out.MaxTotal] {
		out.MaxTotal = ""
		if item, ok := out.PrimaryItem(); ok {
			out.MaxTotal = item.Total.StringFixed(2)
		}
	}

	for _, ref := range []*string{
		&out.Description, &out.Qty, &out.RateIncl, &out.MaxTotal,
		&out.AncillaryDescription, &out.AncillaryCharges,
	} {
		if edited[ref] {
			out.AssembleLineItems()
			break
		}
	}
	return out
}

// Edits returns how many fields differ from the loaded values.
func (v *View) Edits() int {
	n := 0
	for _, f := range v.fields {
		if f.Changed() {
			n++
		}
	}
	return n
}

// Commit makes the current values the new baseline, after a save.
func (v *View) Commit() {
	rec := v.Record()
	if rec == nil {
		return
	}
	v.record = rec
	for i, def := range formFields {
		v.fields[i].Load(*def.ref(rec))
	}
}

// Revert discards every edit.
func (v *View) Revert() {
	for _, f := range v.fields {
		f.Revert()
	}
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focus
}

// FocusedLabel returns the section and label of the focused field.
func (v *View) FocusedLabel() string {
	def := formFields[v.focus]
	return def.section + " / " + def.label
}

// Update handles field navigation and forwards typing to the focused field.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.record == nil {
		return v, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(keyMsg.String(), v.keymap.Next):
			return v, v.move(1)
		case keymap.Matches(keyMsg.String(), v.keymap.Prev):
			return v, v.move(-1)
		}
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

// move shifts focus by delta, wrapping at either end.
func (v *View) move(delta int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.fields)) % len(v.fields)
	return v.fields[v.focus].Focus()
}

// View renders the form.
func (v *View) View() string {
	if v.record == nil {
		return v.styles.Muted.Render("No record loaded")
	}

	var b strings.Builder
	title := "Review voucher"
	if v.source != "" {
		title += ": " + v.source
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(v.renderItems())

	return b.String()
}

// renderForm renders the fields grouped by section, windowed around the
// focused field when the terminal is too short to show them all.
func (v *View) renderForm() string {
	var lines []string
	focusLine := 0
	section := ""
	for i, def := range formFields {
		if def.section != section {
			section = def.section
			lines = append(lines, v.styles.Section.Render(section))
		}
		if i == v.focus {
			focusLine = len(lines)
		}
		lines = append(lines, "  "+v.fields[i].View())
	}

	visible := len(lines)
	if v.height > 0 {
		visible = v.height - tableHeight - 2
		if visible < 5 {
			visible = 5
		}
	}
	if visible >= len(lines) {
		return strings.Join(lines, "\n")
	}

	start := focusLine - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > len(lines) {
		start = len(lines) - visible
	}
	return strings.Join(lines[start:start+visible], "\n")
}

// renderItems renders the line item table with the total, payment and
// balance due. Payment reflects the current form value.
func (v *View) renderItems() string {
	var b strings.Builder
	b.WriteString(v.styles.Section.Render("Line Items"))
	b.WriteString("\n")

	descWidth := 40
	if v.width > 0 {
		descWidth = v.width - 4 - 5 - 2*16
		if descWidth < 20 {
			descWidth = 20
		}
	}
	money := v.styles.Money.Width(16)

	header := fmt.Sprintf("  %-*s %4s", descWidth, "DESCRIPTION", "QTY") +
		money.Render("UNIT PRICE") + money.Render("TOTAL")
	b.WriteString(v.styles.Muted.Render(header))
	b.WriteString("\n")

	rec := v.Record()
	for _, item := range rec.LineItems {
		desc := item.Description
		if lipgloss.Width(desc) > descWidth {
			desc = string([]rune(desc)[:descWidth-1]) + "…"
		}
		row := fmt.Sprintf("  %-*s %4d", descWidth, desc, item.Qty) +
			money.Render(domain.FormatRand(item.UnitPrice)) +
			money.Render(domain.FormatRand(item.Total))
		b.WriteString(v.styles.Normal.Render(row))
		b.WriteString("\n")
	}

	paid, _ := domain.ParseAmount(rec.TotalPaymentReceived)
	inv := domain.Invoice{Total: rec.InvoiceTotal(), PaymentReceived: paid}
	total, due := inv.Total, inv.Outstanding()

	b.WriteString(v.styles.Total.Render(fmt.Sprintf("  INVOICE TOTAL  %s", domain.FormatRand(total))))
	b.WriteString("\n")
	dueStyle := v.styles.Error
	if !due.IsPositive() {
		dueStyle = v.styles.Success
	}
	b.WriteString(dueStyle.Render(fmt.Sprintf("  BALANCE DUE    %s", domain.FormatRand(due))))
	return b.String()
}

// SetDimensions sets the available size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	for _, f := range v.fields {
		f.SetWidth(width - 4)
	}
}
