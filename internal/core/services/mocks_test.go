package services

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/voucherbill/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// mockTextExtractor implements driven.TextExtractor.
type mockTextExtractor struct {
	text     string
	err      error
	allPages bool
	calls    int
}

func (m *mockTextExtractor) Name() string { return "mock" }

func (m *mockTextExtractor) ExtractText(_ context.Context, _ string, allPages bool) (string, error) {
	m.calls++
	m.allPages = allPages
	return m.text, m.err
}

// mockRuleStore implements driven.RuleStore.
type mockRuleStore struct {
	rules   *domain.Rules
	err     error
	loads   int
	reloads int
}

func (m *mockRuleStore) Load() (*domain.Rules, error) {
	m.loads++
	return m.rules, m.err
}

func (m *mockRuleStore) Reload()      { m.reloads++ }
func (m *mockRuleStore) Path() string { return "/mock/rules.toml" }

// mockValidator implements driven.RecordValidator.
type mockValidator struct {
	err   error
	calls int
}

func (m *mockValidator) Validate(_ *domain.VoucherRecord) error {
	m.calls++
	return m.err
}

// mockRenderer implements driven.InvoiceRenderer.
type mockRenderer struct {
	mu       sync.Mutex
	err      error
	rendered []string
	issuer   domain.Issuer
}

func (m *mockRenderer) Extension() string { return ".pdf" }

func (m *mockRenderer) Render(_ context.Context, inv *domain.Invoice, issuer domain.Issuer, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rendered = append(m.rendered, inv.Number)
	m.issuer = issuer
	_, err := io.WriteString(w, "%PDF-mock "+inv.Number)
	return err
}

// mockExporter implements driven.RegisterExporter.
type mockExporter struct {
	got []domain.Invoice
	err error
}

func (m *mockExporter) Export(_ context.Context, invoices []domain.Invoice, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	m.got = invoices
	_, err := io.WriteString(w, "xlsx")
	return err
}

// failingSaveStore wraps an invoice store whose Save always fails.
type failingSaveStore struct {
	*memory.InvoiceStore
	err error
}

func (s *failingSaveStore) Save(_ context.Context, _ *domain.Invoice) error {
	return s.err
}
