package review

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

func sampleRecord() *domain.VoucherRecord {
	rec := domain.NewVoucherRecord()
	rec.CheckIn = "2025/09/01"
	rec.CheckOut = "2025/09/03"
	rec.LengthOfStay = "2"
	rec.VoucherNumber = "TV-99812"
	rec.PassengerNames = "MR J SMITH"
	rec.BillingCompany = "Travel Co"
	rec.TotalPaymentReceived = "500.00"
	rec.LineItems = []domain.LineItem{
		domain.NewLineItem("Accommodation", 2, decimal.RequireFromString("1200.00")),
		domain.NewLineItem("Dinner", 1, decimal.RequireFromString("300.00")),
	}
	return &rec
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Len(t, v.fields, len(formFields))
	assert.False(t, v.Loaded())
	assert.Nil(t, v.Record())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No record loaded")
}

func TestView_LoadFillsFields(t *testing.T) {
	v := NewView(nil, nil)

	cmd := v.Load("voucher.pdf", sampleRecord())

	assert.NotNil(t, cmd)
	assert.True(t, v.Loaded())
	assert.Equal(t, 0, v.Focused())
	assert.Equal(t, "2025/09/01", v.fields[0].Value())
	assert.Equal(t, 0, v.Edits())
}

func TestView_LoadNilGivesEmptyRecord(t *testing.T) {
	v := NewView(nil, nil)

	v.Load("", nil)

	rec := v.Record()
	require.NotNil(t, rec)
	assert.Empty(t, rec.TotalPaymentReceived)
	assert.Empty(t, rec.LineItems)
}

func TestView_LoadCopiesRecord(t *testing.T) {
	src := sampleRecord()
	v := NewView(nil, nil)
	v.Load("v.pdf", src)

	v = typeText(v, "X")
	src.LineItems[0].Description = "changed"

	assert.Equal(t, "2025/09/01", src.CheckIn)
	assert.Equal(t, "Accommodation", v.Record().LineItems[0].Description)
}

func TestView_EditAppliesToRecord(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.pdf", sampleRecord())

	// Move to Voucher Number (index 3) and append.
	for i := 0; i < 3; i++ {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	v = typeText(v, "A")

	rec := v.Record()
	assert.Equal(t, "TV-99812A", rec.VoucherNumber)
	assert.Equal(t, "2025/09/01", rec.CheckIn)
	assert.Equal(t, 1, v.Edits())
	assert.Equal(t, "Guest / Voucher Number", v.FocusedLabel())
}

func TestView_RecordTrimsValues(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.pdf", sampleRecord())

	v.fields[0].SetValue("  2025/09/02 ")

	assert.Equal(t, "2025/09/02", v.Record().CheckIn)
}

func TestView_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"tab", []tea.KeyMsg{{Type: tea.KeyTab}}, 1},
		{"down", []tea.KeyMsg{{Type: tea.KeyDown}}, 1},
		{"enter", []tea.KeyMsg{{Type: tea.KeyEnter}}, 1},
		{"shift tab wraps", []tea.KeyMsg{{Type: tea.KeyShiftTab}}, len(formFields) - 1},
		{"up wraps", []tea.KeyMsg{{Type: tea.KeyUp}}, len(formFields) - 1},
		{"there and back", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyUp}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(nil, nil)
			v.Load("v.pdf", sampleRecord())

			for _, k := range tt.keys {
				v, _ = v.Update(k)
			}

			assert.Equal(t, tt.want, v.Focused())
			assert.True(t, v.fields[tt.want].Focused())
			for i, f := range v.fields {
				if i != tt.want {
					assert.False(t, f.Focused(), "field %d", i)
				}
			}
		})
	}
}

func TestView_UpdateBeforeLoad(t *testing.T) {
	v := NewView(nil, nil)

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, v.Focused())
}

func TestView_CommitAndRevert(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.pdf", sampleRecord())

	v = typeText(v, "x")
	assert.Equal(t, 1, v.Edits())

	v.Revert()
	assert.Equal(t, 0, v.Edits())
	assert.Equal(t, "2025/09/01", v.Record().CheckIn)

	v = typeText(v, "y")
	v.Commit()
	assert.Equal(t, 0, v.Edits())
	assert.Equal(t, "2025/09/01y", v.Record().CheckIn)

	v.Revert()
	assert.Equal(t, "2025/09/01y", v.Record().CheckIn)
}

func TestView_RendersItemsAndTotals(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("voucher.pdf", sampleRecord())

	view := v.View()

	assert.Contains(t, view, "Review voucher: voucher.pdf")
	assert.Contains(t, view, "Stay")
	assert.Contains(t, view, "Check In")
	assert.Contains(t, view, "Accommodation")
	assert.Contains(t, view, "R 1 200.00")
	assert.Contains(t, view, "INVOICE TOTAL  R 2 700.00")
	assert.Contains(t, view, "BALANCE DUE    R 2 200.00")
}

func TestView_BalanceFollowsPaymentEdit(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.pdf", sampleRecord())

	v.fields[len(formFields)-1].SetValue("5000")

	assert.Contains(t, v.View(), "BALANCE DUE    R 0.00")
}

func TestView_TruncatesLongDescriptions(t *testing.T) {
	rec := sampleRecord()
	rec.LineItems[0].Description = "Accommodation at a very long named lodge with many words in it"
	v := NewView(nil, nil)
	v.Load("v.pdf", rec)
	v.SetDimensions(60, 0)

	assert.Contains(t, v.View(), "…")
}

func TestView_WindowsShortTerminals(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.pdf", sampleRecord())
	v.SetDimensions(100, 20)

	view := v.View()
	assert.Contains(t, view, "Check In")
	assert.NotContains(t, view, "Payment Received")

	for i := 0; i < len(formFields)-1; i++ {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	}

	view = v.View()
	assert.Contains(t, view, "Payment Received")
	assert.NotContains(t, view, "Check In")
}

func pricedRecord() *domain.VoucherRecord {
	rec := domain.NewVoucherRecord()
	rec.Description = "Accommodation - Room booked, Single"
	rec.Qty = "30"
	rec.RateIncl = "1688.50"
	rec.MaxTotal = "50655.00"
	rec.AdditionalServices = []domain.LineItem{
		domain.NewLineItem("Daily Transport from Airport to Town and back", 1, decimal.RequireFromString("250.00")),
	}
	rec.AssembleLineItems()
	return &rec
}

func fieldIndex(t *testing.T, section, label string) int {
	t.Helper()
	for i, def := range formFields {
		if def.section == section && def.label == label {
			return i
		}
	}
	t.Fatalf("no field %s / %s", section, label)
	return -1
}

func TestView_ServiceEditsRebuildLineItems(t *testing.T) {
	tests := []struct {
		name      string
		edits     map[string]string
		wantTotal string
		wantMax   string
		wantItems int
	}{
		{
			name:      "rate and max total",
			edits:     map[string]string{"Rate Incl": "2000.00", "Max Total": "60000.00"},
			wantTotal: "60250.00",
			wantMax:   "60000.00",
			wantItems: 2,
		},
		{
			name:      "rate only recomputes total",
			edits:     map[string]string{"Rate Incl": "1000.00"},
			wantTotal: "30250.00",
			wantMax:   "30000.00",
			wantItems: 2,
		},
		{
			name:      "qty only recomputes total",
			edits:     map[string]string{"Qty": "10"},
			wantTotal: "17135.00",
			wantMax:   "16885.00",
			wantItems: 2,
		},
		{
			name:      "ancillary charge adds a row",
			edits:     map[string]string{"Ancillary Charges": "300.00"},
			wantTotal: "51205.00",
			wantMax:   "50655.00",
			wantItems: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(nil, nil)
			v.Load("v.json", pricedRecord())

			for label, value := range tt.edits {
				v.fields[fieldIndex(t, "Service", label)].SetValue(value)
			}

			rec := v.Record()
			assert.Equal(t, tt.wantMax, rec.MaxTotal)
			require.Len(t, rec.LineItems, tt.wantItems)
			assert.Equal(t, tt.wantMax, rec.LineItems[0].Total.StringFixed(2))
			assert.Equal(t, tt.wantTotal, rec.InvoiceTotal().StringFixed(2))
			assert.Contains(t, v.View(), domain.FormatRand(rec.InvoiceTotal()))
		})
	}
}

func TestView_UnpricedEditKeepsLineItems(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.json", sampleRecord())

	v.fields[fieldIndex(t, "Guest", "Voucher Number")].SetValue("TV-1")

	rec := v.Record()
	require.Len(t, rec.LineItems, 2)
	assert.Equal(t, "2700.00", rec.InvoiceTotal().StringFixed(2))
}

func TestView_CommitKeepsRebuiltItems(t *testing.T) {
	v := NewView(nil, nil)
	v.Load("v.json", pricedRecord())

	v.fields[fieldIndex(t, "Service", "Rate Incl")].SetValue("2000.00")
	v.Commit()

	assert.Equal(t, 0, v.Edits())
	rec := v.Record()
	assert.Equal(t, "60000.00", rec.MaxTotal)
	assert.Equal(t, "60250.00", rec.InvoiceTotal().StringFixed(2))
}
