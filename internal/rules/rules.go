// Package rules holds the built-in parsing rules and their TOML encoding.
//
// The rules are data, not code: the known-phrase correction table, the
// priority order of line detectors and the recognised currency codes.
// Users override them by editing the rules file written by the rule store.
package rules

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

//go:embed defaults.toml
var defaultTOML []byte

// DefaultTOML returns the embedded default rules file.
func DefaultTOML() []byte {
	out := make([]byte, len(defaultTOML))
	copy(out, defaultTOML)
	return out
}

// Default returns the embedded default rules.
// Panics if the embedded file is malformed, which is a build defect.
func Default() *domain.Rules {
	r, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded defaults: %v", err))
	}
	return r
}

// Parse decodes and validates a rules file.
// Missing sections fall back to the defaults for that section only.
func Parse(data []byte) (*domain.Rules, error) {
	var r domain.Rules
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: decode rules: %v", domain.ErrInvalidInput, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Merge fills empty sections of r from fallback.
func Merge(r, fallback *domain.Rules) *domain.Rules {
	out := *r
	if len(out.Corrections) == 0 {
		out.Corrections = fallback.Corrections
	}
	if len(out.Detectors) == 0 {
		out.Detectors = fallback.Detectors
	}
	if len(out.Currencies) == 0 {
		out.Currencies = fallback.Currencies
	}
	return &out
}

// Encode writes rules as TOML.
func Encode(r *domain.Rules) ([]byte, error) {
	data, err := toml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	return data, nil
}
