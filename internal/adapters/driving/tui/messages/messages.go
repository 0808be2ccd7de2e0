// Package messages defines the Bubble Tea messages exchanged between the
// review app and its views.
package messages

import (
	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewLoading is shown while the voucher is being parsed.
	ViewLoading ViewType = iota
	// ViewReview is the editable record form.
	ViewReview
	// ViewHelp lists keybindings.
	ViewHelp
	// ViewFailed is shown when the voucher could not be parsed.
	ViewFailed
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewReview:
		return "review"
	case ViewHelp:
		return "help"
	case ViewFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// VoucherParsed carries the record recovered from a voucher.
type VoucherParsed struct {
	Path   string
	Record *domain.VoucherRecord
	Err    error
}

// RecordSaved signals the edited record was written to disk.
type RecordSaved struct {
	Path string
	Err  error
}

// InvoiceGenerated signals an invoice was produced from the edited record.
type InvoiceGenerated struct {
	Invoice *domain.Invoice
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
