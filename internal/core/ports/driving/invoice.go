package driving

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// InvoiceService numbers, renders and records invoices.
type InvoiceService interface {
	// NextNumber reserves and returns the next invoice number.
	NextNumber(ctx context.Context) (string, error)

	// PeekNumber returns the next invoice number without reserving it.
	PeekNumber(ctx context.Context) (string, error)

	// Generate builds an invoice from a record, renders it when requested
	// and saves it in the register.
	Generate(ctx context.Context, record *domain.VoucherRecord, opts domain.GenerateOptions) (*domain.Invoice, error)

	// Get retrieves an invoice by number.
	Get(ctx context.Context, number string) (*domain.Invoice, error)

	// List returns every invoice in the register.
	List(ctx context.Context) ([]domain.Invoice, error)

	// Export writes the register as a spreadsheet.
	Export(ctx context.Context, w io.Writer) error

	// Cleanup deletes rendered documents older than maxAge from the output
	// directory and returns how many were removed.
	Cleanup(maxAge time.Duration) (int, error)
}
