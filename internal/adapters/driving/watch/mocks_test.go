package watch

import (
	"context"
	"sync"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// mockVoucherService implements driving.VoucherService.
type mockVoucherService struct {
	mu     sync.Mutex
	err    error
	parsed []string
}

func (m *mockVoucherService) Parse(_ context.Context, path string) (*domain.VoucherRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parsed = append(m.parsed, path)
	if m.err != nil {
		return nil, m.err
	}
	rec := domain.NewVoucherRecord()
	rec.VoucherNumber = "G844979"
	rec.LineItems = []domain.LineItem{domain.PlaceholderItem()}
	return &rec, nil
}

func (m *mockVoucherService) ParseText(_ context.Context, _ string) (*domain.VoucherRecord, error) {
	rec := domain.NewVoucherRecord()
	return &rec, nil
}

func (m *mockVoucherService) Normalise(text string) string { return text }

func (m *mockVoucherService) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.parsed...)
}
