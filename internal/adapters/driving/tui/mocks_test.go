package tui

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
)

var (
	_ driving.VoucherService = (*mockVoucherService)(nil)
	_ driving.InvoiceService = (*mockInvoiceService)(nil)
)

// mockVoucherService implements driving.VoucherService for testing.
type mockVoucherService struct {
	record *domain.VoucherRecord
	err    error
	paths  []string
}

func (m *mockVoucherService) Parse(_ context.Context, path string) (*domain.VoucherRecord, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		rec := domain.NewVoucherRecord()
		return &rec, nil
	}
	return m.record, nil
}

func (m *mockVoucherService) ParseText(_ context.Context, _ string) (*domain.VoucherRecord, error) {
	rec := domain.NewVoucherRecord()
	return &rec, nil
}

func (m *mockVoucherService) Normalise(text string) string {
	return text
}

// mockInvoiceService implements driving.InvoiceService for testing.
type mockInvoiceService struct {
	generated []*domain.VoucherRecord
	opts      []domain.GenerateOptions
	err       error
}

func (m *mockInvoiceService) NextNumber(_ context.Context) (string, error) {
	return "INV-000600", nil
}

func (m *mockInvoiceService) PeekNumber(_ context.Context) (string, error) {
	return "INV-000600", nil
}

func (m *mockInvoiceService) Generate(
	_ context.Context, record *domain.VoucherRecord, opts domain.GenerateOptions,
) (*domain.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.generated = append(m.generated, record)
	m.opts = append(m.opts, opts)
	return &domain.Invoice{
		Number:   "INV-000600",
		Record:   *record,
		Total:    record.InvoiceTotal(),
		FilePath: "out/INV-000600.pdf",
	}, nil
}

func (m *mockInvoiceService) Get(_ context.Context, _ string) (*domain.Invoice, error) {
	return nil, domain.ErrNotFound
}

func (m *mockInvoiceService) List(_ context.Context) ([]domain.Invoice, error) {
	return nil, nil
}

func (m *mockInvoiceService) Export(_ context.Context, _ io.Writer) error {
	return nil
}

func (m *mockInvoiceService) Cleanup(_ time.Duration) (int, error) {
	return 0, nil
}
