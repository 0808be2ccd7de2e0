package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoicePrefix is prepended to every invoice number.
const InvoicePrefix = "INV-"

// DefaultInvoiceFloor is the counter value below which numbering never goes.
// The first generated number is therefore INV-000600.
const DefaultInvoiceFloor = 599

// FormatInvoiceNumber renders a counter value as an invoice number.
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("%s%06d", InvoicePrefix, n)
}

// EnsureInvoicePrefix adds the invoice prefix to a manually entered number
// when it is missing. Empty input stays empty.
func EnsureInvoicePrefix(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, InvoicePrefix) {
		return number
	}
	return InvoicePrefix + number
}

// Invoice is a numbered invoice built from a voucher record.
type Invoice struct {
	// ID is a unique identifier.
	ID string

	// Number is the human-facing invoice number, e.g. INV-000600.
	Number string

	// IssuedAt is when the invoice was generated.
	IssuedAt time.Time

	// Record is the voucher data the invoice was built from.
	Record VoucherRecord

	// Total is the sum of the record's line items.
	Total decimal.Decimal

	// PaymentReceived is the amount already paid.
	PaymentReceived decimal.Decimal

	// FilePath is where the rendered document was written, if any.
	FilePath string
}

// Outstanding returns the unpaid balance, never below zero.
func (i *Invoice) Outstanding() decimal.Decimal {
	out := i.Total.Sub(i.PaymentReceived)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Issuer holds the details of the business issuing invoices.
// Printed in the invoice header and payment section.
type Issuer struct {
	Name          string
	Tagline       string
	Address       string
	Phone         string
	Email         string
	BankName      string
	AccountName   string
	AccountNumber string
	BranchCode    string
}

// IsConfigured returns true if the issuer has at least a name.
func (i Issuer) IsConfigured() bool {
	return i.Name != ""
}

// GenerateOptions controls invoice generation.
type GenerateOptions struct {
	// Number overrides the next sequence number when set.
	Number string

	// PaymentReceived overrides the record's total_payment_received when set.
	PaymentReceived string

	// Render writes the invoice document when true.
	Render bool
}
