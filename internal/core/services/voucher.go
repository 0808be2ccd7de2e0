package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driving"
	"github.com/custodia-labs/voucherbill/internal/extractor"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Ensure VoucherService implements the interface.
var _ driving.VoucherService = (*VoucherService)(nil)

// VoucherService extracts text from voucher PDFs and parses it into records.
type VoucherService struct {
	text      driven.TextExtractor
	rules     driven.RuleStore
	validator driven.RecordValidator
	allPages  bool

	mu        sync.Mutex
	extractor *extractor.Extractor
}

// VoucherServiceOption configures a VoucherService.
type VoucherServiceOption func(*VoucherService)

// WithValidator checks every parsed record against the record schema.
func WithValidator(v driven.RecordValidator) VoucherServiceOption {
	return func(s *VoucherService) { s.validator = v }
}

// WithAllPages extracts every page of the PDF instead of only the first.
func WithAllPages(all bool) VoucherServiceOption {
	return func(s *VoucherService) { s.allPages = all }
}

// NewVoucherService creates a voucher service.
// A nil rule store uses the built-in rules.
func NewVoucherService(text driven.TextExtractor, rules driven.RuleStore, opts ...VoucherServiceOption) *VoucherService {
	s := &VoucherService{text: text, rules: rules}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse extracts text from the PDF at path and parses it.
func (s *VoucherService) Parse(ctx context.Context, path string) (*domain.VoucherRecord, error) {
	if s.text == nil {
		return nil, errors.New("text extractor not configured")
	}

	text, err := s.text.ExtractText(ctx, path, s.allPages)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInputError, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s: no extractable text", domain.ErrInputError, path)
	}
	logger.Debug("extracted %d bytes from %s using %s", len(text), path, s.text.Name())

	return s.ParseText(ctx, text)
}

// ParseText parses already-extracted voucher text.
func (s *VoucherService) ParseText(ctx context.Context, text string) (*domain.VoucherRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext, err := s.current()
	if err != nil {
		return nil, err
	}

	record := ext.Extract(text)

	if s.validator != nil {
		if err := s.validator.Validate(&record); err != nil {
			logger.Warn("record failed validation: %v", err)
		}
	}

	return &record, nil
}

// Normalise repairs spacing defects in extracted text.
// Falls back to the built-in corrections when the rules cannot be loaded.
func (s *VoucherService) Normalise(text string) string {
	ext, err := s.current()
	if err != nil {
		logger.Warn("using built-in rules: %v", err)
		ext = extractor.Default()
	}
	return ext.Normalise(text)
}

// Reload discards the cached rules so the next parse reads them again.
func (s *VoucherService) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractor = nil
	if s.rules != nil {
		s.rules.Reload()
	}
}

// Detectors returns the active detector order.
func (s *VoucherService) Detectors() ([]string, error) {
	ext, err := s.current()
	if err != nil {
		return nil, err
	}
	return ext.Detectors(), nil
}

// current returns the extractor for the current rules, building it once.
func (s *VoucherService) current() (*extractor.Extractor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.extractor != nil {
		return s.extractor, nil
	}

	if s.rules == nil {
		s.extractor = extractor.Default()
		return s.extractor, nil
	}

	r, err := s.rules.Load()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	ext, err := extractor.New(r)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", s.rules.Path(), err)
	}
	s.extractor = ext
	return ext, nil
}
