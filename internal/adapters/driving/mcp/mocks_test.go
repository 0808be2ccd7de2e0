package mcp

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// mockVoucherService is a mock implementation of driving.VoucherService.
type mockVoucherService struct {
	record   *domain.VoucherRecord
	err      error
	lastPath string
	lastText string
}

func (m *mockVoucherService) Parse(_ context.Context, path string) (*domain.VoucherRecord, error) {
	m.lastPath = path
	return m.record, m.err
}

func (m *mockVoucherService) ParseText(_ context.Context, text string) (*domain.VoucherRecord, error) {
	m.lastText = text
	return m.record, m.err
}

func (m *mockVoucherService) Normalise(text string) string {
	return "normalised: " + text
}

// mockInvoiceService is a mock implementation of driving.InvoiceService.
type mockInvoiceService struct {
	invoices []domain.Invoice
	invoice  *domain.Invoice
	next     string
	err      error
}

func (m *mockInvoiceService) NextNumber(_ context.Context) (string, error) {
	return m.next, m.err
}

func (m *mockInvoiceService) PeekNumber(_ context.Context) (string, error) {
	return m.next, m.err
}

func (m *mockInvoiceService) Generate(
	_ context.Context,
	_ *domain.VoucherRecord,
	_ domain.GenerateOptions,
) (*domain.Invoice, error) {
	return m.invoice, m.err
}

func (m *mockInvoiceService) Get(_ context.Context, _ string) (*domain.Invoice, error) {
	return m.invoice, m.err
}

func (m *mockInvoiceService) List(_ context.Context) ([]domain.Invoice, error) {
	return m.invoices, m.err
}

func (m *mockInvoiceService) Export(_ context.Context, _ io.Writer) error {
	return m.err
}

func (m *mockInvoiceService) Cleanup(_ time.Duration) (int, error) {
	return 0, m.err
}
