package driven

import (
	"context"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// InvoiceStore persists the invoice counter and the invoice register.
type InvoiceStore interface {
	// NextSequence increments and returns the invoice counter.
	// The returned value is never below floor+1.
	NextSequence(ctx context.Context, floor int) (int, error)

	// PeekSequence returns the value NextSequence would return, without
	// incrementing.
	PeekSequence(ctx context.Context, floor int) (int, error)

	// Save stores or updates an invoice, keyed by number.
	Save(ctx context.Context, invoice *domain.Invoice) error

	// Get retrieves an invoice by number.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, number string) (*domain.Invoice, error)

	// List returns all invoices, most recent first.
	List(ctx context.Context) ([]domain.Invoice, error)

	// Delete removes an invoice by number.
	Delete(ctx context.Context, number string) error
}
