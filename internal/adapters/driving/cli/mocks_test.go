package cli

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
	"github.com/custodia-labs/voucherbill/internal/rules"
)

var (
	_ driving.VoucherService  = (*mockVoucherService)(nil)
	_ driving.InvoiceService  = (*mockInvoiceService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
	_ driven.RuleStore        = (*mockRuleStore)(nil)
)

func sampleRecord() *domain.VoucherRecord {
	rec := domain.NewVoucherRecord()
	rec.CheckIn = "2025/09/01"
	rec.CheckOut = "2025/09/03"
	rec.LengthOfStay = "2"
	rec.VoucherNumber = "TV-1"
	rec.PassengerNames = "MR J SMITH"
	rec.BillingCompany = "Travel Co"
	rec.LineItems = []domain.LineItem{
		domain.NewLineItem("Accommodation", 2, decimal.RequireFromString("1200.00")),
	}
	return &rec
}

// mockVoucherService implements driving.VoucherService for testing.
type mockVoucherService struct {
	err    error
	paths  []string
	texts  []string
	record *domain.VoucherRecord
}

func (m *mockVoucherService) Parse(_ context.Context, path string) (*domain.VoucherRecord, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	if m.record != nil {
		return m.record, nil
	}
	return sampleRecord(), nil
}

func (m *mockVoucherService) ParseText(_ context.Context, text string) (*domain.VoucherRecord, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	rec := sampleRecord()
	rec.CustomerName = strings.TrimSpace(text)
	return rec, nil
}

func (m *mockVoucherService) Normalise(text string) string {
	return strings.ReplaceAll(text, "Che ck", "Check")
}

// mockInvoiceService implements driving.InvoiceService for testing.
type mockInvoiceService struct {
	invoices  map[string]*domain.Invoice
	next      int
	opts      []domain.GenerateOptions
	maxAges   []time.Duration
	err       error
	exported  int
	cleanupN  int
}

func newMockInvoiceService() *mockInvoiceService {
	return &mockInvoiceService{invoices: make(map[string]*domain.Invoice), next: 600}
}

func (m *mockInvoiceService) NextNumber(_ context.Context) (string, error) {
	n := domain.FormatInvoiceNumber(m.next)
	m.next++
	return n, nil
}

func (m *mockInvoiceService) PeekNumber(_ context.Context) (string, error) {
	return domain.FormatInvoiceNumber(m.next), m.err
}

func (m *mockInvoiceService) Generate(
	ctx context.Context, record *domain.VoucherRecord, opts domain.GenerateOptions,
) (*domain.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.opts = append(m.opts, opts)
	number := domain.EnsureInvoicePrefix(opts.Number)
	if opts.Number == "" {
		number, _ = m.NextNumber(ctx)
	}
	paid, _ := domain.ParseAmount(opts.PaymentReceived)
	inv := &domain.Invoice{
		ID:              "id-" + number,
		Number:          number,
		IssuedAt:        time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC),
		Record:          *record,
		Total:           record.InvoiceTotal(),
		PaymentReceived: paid,
	}
	if opts.Render {
		inv.FilePath = "out/" + number + ".pdf"
	}
	m.invoices[number] = inv
	return inv, nil
}

func (m *mockInvoiceService) Get(_ context.Context, number string) (*domain.Invoice, error) {
	inv, ok := m.invoices[domain.EnsureInvoicePrefix(number)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (m *mockInvoiceService) List(_ context.Context) ([]domain.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *mockInvoiceService) Export(_ context.Context, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	m.exported++
	_, err := io.WriteString(w, "xlsx")
	return err
}

func (m *mockInvoiceService) Cleanup(maxAge time.Duration) (int, error) {
	m.maxAges = append(m.maxAges, maxAge)
	return m.cleanupN, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	saved    int
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if settings.Invoice.Floor < 0 {
		return domain.ErrInvalidInput
	}
	m.settings = *settings
	m.saved++
	return nil
}

func (m *mockSettingsService) SetPDFBackend(backend domain.PDFBackend) error {
	if !backend.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.PDF.Backend = backend
	return nil
}

func (m *mockSettingsService) SetIssuer(issuer domain.Issuer) error {
	if !issuer.IsConfigured() {
		return domain.ErrInvalidInput
	}
	m.settings.Issuer = issuer
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockRuleStore implements driven.RuleStore for testing.
type mockRuleStore struct {
	rules   *domain.Rules
	err     error
	reloads int
}

func (m *mockRuleStore) Load() (*domain.Rules, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rules != nil {
		return m.rules, nil
	}
	return rules.Default(), nil
}

func (m *mockRuleStore) Reload() {
	m.reloads++
}

func (m *mockRuleStore) Path() string {
	return "/tmp/voucherbill/rules.toml"
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	voucher  *mockVoucherService
	invoice  *mockInvoiceService
	settings *mockSettingsService
	rules    *mockRuleStore
}

// setupTestServices installs fresh mocks and returns a cleanup function
// that restores the previous services and resets every flag.
func setupTestServices() func() {
	_, cleanup := installTestServices()
	return cleanup
}

func installTestServices() (*testServices, func()) {
	oldVoucher, oldInvoice, oldSettings, oldRules := voucherService, invoiceService, settingsService, ruleStore
	oldBootstrap := bootstrap

	ts := &testServices{
		voucher:  &mockVoucherService{},
		invoice:  newMockInvoiceService(),
		settings: newMockSettingsService(),
		rules:    &mockRuleStore{},
	}
	bootstrap = nil
	SetServices(&Services{
		Voucher:  ts.voucher,
		Invoice:  ts.invoice,
		Settings: ts.settings,
		Rules:    ts.rules,
	})

	return ts, func() {
		voucherService, invoiceService, settingsService, ruleStore = oldVoucher, oldInvoice, oldSettings, oldRules
		bootstrap = oldBootstrap
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared root command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
