package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
)

// Ensure InvoiceStore implements the interface.
var _ driven.InvoiceStore = (*InvoiceStore)(nil)

// InvoiceStore is an in-memory implementation of driven.InvoiceStore.
// The counter and register are lost when the process exits.
type InvoiceStore struct {
	mu       sync.RWMutex
	counter  int
	invoices map[string]domain.Invoice
}

// NewInvoiceStore creates a new in-memory invoice store.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{
		invoices: make(map[string]domain.Invoice),
	}
}

// NextSequence increments and returns the invoice counter.
func (s *InvoiceStore) NextSequence(_ context.Context, floor int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counter < floor {
		s.counter = floor
	}
	s.counter++
	return s.counter, nil
}

// PeekSequence returns the next counter value without reserving it.
func (s *InvoiceStore) PeekSequence(_ context.Context, floor int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return max(s.counter, floor) + 1, nil
}

// Save stores or updates an invoice.
func (s *InvoiceStore) Save(_ context.Context, invoice *domain.Invoice) error {
	if invoice == nil || invoice.Number == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[invoice.Number] = *invoice
	return nil
}

// Get retrieves an invoice by number.
func (s *InvoiceStore) Get(_ context.Context, number string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &inv, nil
}

// List returns all invoices, most recent first.
func (s *InvoiceStore) List(_ context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].IssuedAt.Equal(result[j].IssuedAt) {
			return result[i].IssuedAt.After(result[j].IssuedAt)
		}
		return result[i].Number > result[j].Number
	})
	return result, nil
}

// Delete removes an invoice by number.
func (s *InvoiceStore) Delete(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[number]; !ok {
		return domain.ErrNotFound
	}
	delete(s.invoices, number)
	return nil
}
