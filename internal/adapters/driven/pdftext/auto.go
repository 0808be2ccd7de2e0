package pdftext

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Ensure Auto implements the interface.
var _ driven.TextExtractor = (*Auto)(nil)

// Auto tries each extractor in turn and returns the first non-empty text.
type Auto struct {
	chain []driven.TextExtractor
}

// NewAuto creates an extractor that prefers pdftotext and falls back to
// the built-in reader.
func NewAuto() *Auto {
	return NewChain(NewPoppler(), NewNative())
}

// NewChain creates an Auto over the given extractors, in order.
func NewChain(extractors ...driven.TextExtractor) *Auto {
	return &Auto{chain: extractors}
}

// Name identifies the backend.
func (a *Auto) Name() string {
	return string(domain.PDFBackendAuto)
}

// ExtractText returns the first non-empty result. If every extractor
// fails, the errors are joined; if some succeed with empty text, the
// result is empty with no error.
func (a *Auto) ExtractText(ctx context.Context, path string, allPages bool) (string, error) {
	var errs []error
	succeeded := false

	for _, e := range a.chain {
		text, err := e.ExtractText(ctx, path, allPages)
		if err != nil {
			logger.Debug("pdftext: %s failed: %v", e.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		succeeded = true
		if text != "" {
			logger.Debug("pdftext: extracted %d bytes with %s", len(text), e.Name())
			return text, nil
		}
	}

	if succeeded {
		return "", nil
	}
	return "", errors.Join(errs...)
}

// New returns the extractor for a configured backend.
func New(backend domain.PDFBackend) (driven.TextExtractor, error) {
	switch backend {
	case domain.PDFBackendAuto, "":
		return NewAuto(), nil
	case domain.PDFBackendPoppler:
		return NewPoppler(), nil
	case domain.PDFBackendNative:
		return NewNative(), nil
	default:
		return nil, fmt.Errorf("%w: pdf backend %q", domain.ErrInvalidInput, backend)
	}
}
