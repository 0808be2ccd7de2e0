package extractor

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/logger"
	"github.com/custodia-labs/voucherbill/internal/normaliser"
	"github.com/custodia-labs/voucherbill/internal/rules"
)

// Extractor recovers a VoucherRecord from raw voucher text.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	cfg       *Config
	detectors []Detector
}

// New creates an extractor from a rule set. Detectors run in the order
// the rules list them; every name must be a registered detector and may
// appear only once.
func New(r *domain.Rules) (*Extractor, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: rules are required", domain.ErrInvalidInput)
	}

	cfg, err := NewConfig(r.Currencies, normaliser.New(r.Corrections))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	order := r.Detectors
	if len(order) == 0 {
		order = DefaultOrder
	}

	registry := NewRegistry()
	RegisterDefaults(registry)

	seen := make(map[string]bool, len(order))
	detectors := make([]Detector, 0, len(order))
	for _, name := range order {
		if seen[name] {
			return nil, fmt.Errorf("%w: detector %q listed twice", domain.ErrInvalidInput, name)
		}
		seen[name] = true

		d, err := registry.Build(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		detectors = append(detectors, d)
	}

	return &Extractor{cfg: cfg, detectors: detectors}, nil
}

// Default creates an extractor from the built-in rules.
func Default() *Extractor {
	e, err := New(rules.Default())
	if err != nil {
		panic(fmt.Sprintf("extractor: built-in rules rejected: %v", err))
	}
	return e
}

// Normalise cleans text with the extractor's correction table.
func (e *Extractor) Normalise(text string) string {
	return e.cfg.norm.Normalise(text)
}

// Detectors returns the detector names in priority order.
func (e *Extractor) Detectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name
	}
	return names
}

// Extract normalises text and builds a record from it.
// Missing information leaves fields empty; it is never an error.
func (e *Extractor) Extract(text string) domain.VoucherRecord {
	cleaned := e.Normalise(text)
	lines := strings.Split(cleaned, "\n")

	b := newBuilder(e.cfg)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range e.detectors {
			if !d.Match(line) {
				continue
			}
			logger.Debug("extractor: line %d matched %s", i+1, d.Name)
			d.Apply(b, lines, i)
			break
		}
	}

	finish(b, cleaned)
	return b.rec
}
