package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Ensure InvoiceService implements the interface.
var _ driving.InvoiceService = (*InvoiceService)(nil)

// InvoiceService numbers, renders and records invoices.
type InvoiceService struct {
	store     driven.InvoiceStore
	renderer  driven.InvoiceRenderer
	exporter  driven.RegisterExporter
	settings  driving.SettingsService
	outputDir string
	now       func() time.Time
}

// InvoiceServiceConfig holds the collaborators of an InvoiceService.
type InvoiceServiceConfig struct {
	Store    driven.InvoiceStore
	Renderer driven.InvoiceRenderer
	Exporter driven.RegisterExporter
	Settings driving.SettingsService

	// OutputDir is used when the invoice.output_dir setting is empty.
	OutputDir string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewInvoiceService creates an invoice service.
func NewInvoiceService(cfg InvoiceServiceConfig) *InvoiceService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &InvoiceService{
		store:     cfg.Store,
		renderer:  cfg.Renderer,
		exporter:  cfg.Exporter,
		settings:  cfg.Settings,
		outputDir: cfg.OutputDir,
		now:       now,
	}
}

// NextNumber reserves and returns the next invoice number.
func (s *InvoiceService) NextNumber(ctx context.Context) (string, error) {
	n, err := s.store.NextSequence(ctx, s.floor())
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return domain.FormatInvoiceNumber(n), nil
}

// PeekNumber returns the next invoice number without reserving it.
func (s *InvoiceService) PeekNumber(ctx context.Context) (string, error) {
	n, err := s.store.PeekSequence(ctx, s.floor())
	if err != nil {
		return "", fmt.Errorf("peek invoice number: %w", err)
	}
	return domain.FormatInvoiceNumber(n), nil
}

// Generate builds an invoice from a record, renders it when requested and
// saves it in the register. The record is copied; the caller's value is
// not modified.
func (s *InvoiceService) Generate(
	ctx context.Context,
	record *domain.VoucherRecord,
	opts domain.GenerateOptions,
) (*domain.Invoice, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}

	payment, err := paymentReceived(record, opts)
	if err != nil {
		return nil, err
	}

	number := domain.EnsureInvoicePrefix(opts.Number)
	if number == "" {
		number, err = s.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.store.Get(ctx, number); err == nil {
		logger.Warn("invoice %s already exists and will be replaced", number)
	}

	rec := copyRecord(record)
	rec.TotalPaymentReceived = payment.StringFixed(2)

	inv := &domain.Invoice{
		ID:              uuid.NewString(),
		Number:          number,
		IssuedAt:        s.now(),
		Record:          rec,
		Total:           rec.InvoiceTotal(),
		PaymentReceived: payment,
	}

	if opts.Render {
		path, err := s.render(ctx, inv)
		if err != nil {
			return nil, err
		}
		inv.FilePath = path
	}

	if err := s.store.Save(ctx, inv); err != nil {
		if inv.FilePath != "" {
			if rmErr := os.Remove(inv.FilePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logger.Warn("failed to remove %s: %v", inv.FilePath, rmErr)
			}
		}
		return nil, fmt.Errorf("save invoice %s: %w", number, err)
	}

	logger.Info("generated invoice %s total %s", number, domain.FormatRand(inv.Total))
	return inv, nil
}

// Get retrieves an invoice by number. The prefix may be omitted.
func (s *InvoiceService) Get(ctx context.Context, number string) (*domain.Invoice, error) {
	number = domain.EnsureInvoicePrefix(number)
	if number == "" {
		return nil, fmt.Errorf("%w: empty invoice number", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, number)
}

// List returns every invoice in the register, most recent first.
func (s *InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.store.List(ctx)
}

// Export writes the register as a spreadsheet.
func (s *InvoiceService) Export(ctx context.Context, w io.Writer) error {
	if s.exporter == nil {
		return errors.New("register exporter not configured")
	}
	invoices, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	return s.exporter.Export(ctx, invoices, w)
}

// Cleanup deletes rendered documents older than maxAge from the output
// directory. A missing directory or a non-positive maxAge removes nothing.
func (s *InvoiceService) Cleanup(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	dir := s.OutputDir()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read output directory: %w", err)
	}

	ext := ".pdf"
	if s.renderer != nil {
		ext = s.renderer.Extension()
	}
	cutoff := s.now().Add(-maxAge)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove %s: %v", path, err)
			continue
		}
		logger.Debug("removed %s", path)
		removed++
	}
	return removed, nil
}

// OutputDir returns where rendered invoices are written.
func (s *InvoiceService) OutputDir() string {
	if s.settings != nil {
		if settings, err := s.settings.Get(); err == nil && settings.Invoice.OutputDir != "" {
			return settings.Invoice.OutputDir
		}
	}
	return s.outputDir
}

func (s *InvoiceService) render(ctx context.Context, inv *domain.Invoice) (string, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("%w: invoice renderer not configured", domain.ErrRenderFailed)
	}

	dir := s.OutputDir()
	if dir == "" {
		return "", fmt.Errorf("%w: no output directory", domain.ErrRenderFailed)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, inv.Number+s.renderer.Extension())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := s.renderer.Render(ctx, inv, s.issuer(), f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func (s *InvoiceService) floor() int {
	if s.settings != nil {
		if settings, err := s.settings.Get(); err == nil {
			return settings.Invoice.Floor
		}
	}
	return domain.DefaultInvoiceFloor
}

func (s *InvoiceService) issuer() domain.Issuer {
	if s.settings != nil {
		if settings, err := s.settings.Get(); err == nil {
			return settings.Issuer
		}
	}
	return domain.Issuer{}
}

// paymentReceived resolves the amount already paid. An explicit option
// must parse; the record's own value is best effort.
func paymentReceived(record *domain.VoucherRecord, opts domain.GenerateOptions) (decimal.Decimal, error) {
	if strings.TrimSpace(opts.PaymentReceived) != "" {
		d, ok := domain.ParseAmount(opts.PaymentReceived)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: payment received %q", domain.ErrInvalidInput, opts.PaymentReceived)
		}
		return d, nil
	}
	d, _ := domain.ParseAmount(record.TotalPaymentReceived)
	return d, nil
}

func copyRecord(r *domain.VoucherRecord) domain.VoucherRecord {
	c := *r
	c.AdditionalServices = append([]domain.LineItem{}, r.AdditionalServices...)
	c.AdditionalAncillary = append([]domain.LineItem{}, r.AdditionalAncillary...)
	c.LineItems = append([]domain.LineItem{}, r.LineItems...)
	return c
}
