package driving

import (
	"context"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// VoucherService turns voucher documents into structured records.
type VoucherService interface {
	// Parse extracts text from the PDF at path and parses it.
	// Returns domain.ErrInputError if the file yields no text.
	Parse(ctx context.Context, path string) (*domain.VoucherRecord, error)

	// ParseText parses already-extracted voucher text.
	// Never fails on missing fields; empty text gives a record holding
	// only the placeholder line item.
	ParseText(ctx context.Context, text string) (*domain.VoucherRecord, error)

	// Normalise repairs spacing defects in extracted text.
	Normalise(text string) string
}
