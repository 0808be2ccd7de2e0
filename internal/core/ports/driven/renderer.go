package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// InvoiceRenderer writes a formatted invoice document.
type InvoiceRenderer interface {
	// Render writes the invoice to w.
	Render(ctx context.Context, invoice *domain.Invoice, issuer domain.Issuer, w io.Writer) error

	// Extension is the file extension of rendered documents, e.g. ".pdf".
	Extension() string
}

// RegisterExporter writes the invoice register as a spreadsheet.
type RegisterExporter interface {
	// Export writes all invoices to w.
	Export(ctx context.Context, invoices []domain.Invoice, w io.Writer) error
}
