package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

func testInvoice() *domain.Invoice {
	rec := domain.NewVoucherRecord()
	rec.VoucherNumber = "G846886"
	rec.PassengerNames = "Mr John Smith"
	rec.CheckIn = "2024/03/01"
	rec.CheckOut = "2024/03/06"
	rec.LengthOfStay = "5"
	rec.BillingCompany = "Acme Travel"
	rec.CompanyName = "Ulendo Lodge"
	rec.LineItems = []domain.LineItem{
		domain.NewLineItem("Accommodation - Standard Room", 5, decimal.NewFromInt(1000)),
		domain.NewLineItem("Laundry", 1, decimal.NewFromInt(300)),
	}
	total := rec.InvoiceTotal()

	return &domain.Invoice{
		ID:              "inv-1",
		Number:          "INV-000600",
		IssuedAt:        time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC),
		Record:          rec,
		Total:           total,
		PaymentReceived: decimal.NewFromInt(1000),
	}
}

func render(t *testing.T, inv *domain.Invoice, issuer domain.Issuer) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(context.Background(), inv, issuer, &buf))
	return buf.Bytes()
}

func readText(t *testing.T, data []byte) string {
	t.Helper()
	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	plain, err := r.GetPlainText()
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(plain)
	require.NoError(t, err)
	return buf.String()
}

func TestRenderer_Extension(t *testing.T) {
	assert.Equal(t, ".pdf", NewRenderer().Extension())
}

func TestRenderer_Render(t *testing.T) {
	data := render(t, testInvoice(), domain.Issuer{})

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	text := readText(t, data)
	assert.Contains(t, text, "INV-000600")
	assert.Contains(t, text, "INVOICE TOTAL")
	assert.Contains(t, text, "Ulendo Lodge")
}

func TestRenderer_Render_ConfiguredIssuer(t *testing.T) {
	issuer := domain.Issuer{
		Name:          "Kaya Guest House",
		BankName:      "First Bank",
		AccountNumber: "62012345678",
	}
	text := readText(t, render(t, testInvoice(), issuer))

	assert.Contains(t, text, "Kaya Guest House")
	assert.Contains(t, text, "PAYMENT DETAILS")
	assert.Contains(t, text, "62012345678")
}

func TestRenderer_Render_ManyItems(t *testing.T) {
	inv := testInvoice()
	for i := 0; i < 60; i++ {
		inv.Record.LineItems = append(inv.Record.LineItems,
			domain.NewLineItem(fmt.Sprintf("Extra %d %s", i, strings.Repeat("long text ", 8)), 1, decimal.NewFromInt(10)))
	}
	inv.Total = inv.Record.InvoiceTotal()

	data := render(t, inv, domain.Issuer{})

	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Greater(t, r.NumPage(), 1)
}

func TestRenderer_Render_NonASCII(t *testing.T) {
	inv := testInvoice()
	inv.Record.PassengerNames = "Mme Zoë Müller"

	data := render(t, inv, domain.Issuer{})
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderer_Render_EmptyRecord(t *testing.T) {
	inv := &domain.Invoice{Number: "INV-000601", Record: domain.NewVoucherRecord()}

	data := render(t, inv, domain.Issuer{})
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderer_Render_Errors(t *testing.T) {
	r := NewRenderer()

	err := r.Render(context.Background(), nil, domain.Issuer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.Render(ctx, testInvoice(), domain.Issuer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromIssuer(t *testing.T) {
	rec := domain.NewVoucherRecord()
	rec.CompanyName = "Ulendo Lodge"
	rec.CompanyPhone = "(067) 6237170"

	got := fromIssuer(domain.Issuer{}, &rec)
	assert.Equal(t, "Ulendo Lodge", got.Name)
	assert.Equal(t, "(067) 6237170", got.Phone)

	got = fromIssuer(domain.Issuer{Name: "Kaya"}, &rec)
	assert.Equal(t, "Kaya", got.Name)
	assert.Empty(t, got.Phone)
}
