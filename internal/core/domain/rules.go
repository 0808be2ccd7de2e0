package domain

import (
	"fmt"
	"strings"
)

// Correction is one entry of the known-phrase correction table.
// From is replaced literally by To.
type Correction struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// Rules is the data-driven part of voucher parsing.
type Rules struct {
	// Corrections are applied in order as literal substring replacements.
	Corrections []Correction `toml:"corrections" json:"corrections"`

	// Detectors is the priority order of line detectors by name.
	Detectors []string `toml:"detectors" json:"detectors"`

	// Currencies are the currency codes recognised on amount lines.
	Currencies []string `toml:"currencies" json:"currencies"`
}

// Validate checks the correction table.
// A replacement may not contain any pattern, otherwise repeated
// normalisation would keep rewriting the same text.
func (r *Rules) Validate() error {
	for i, c := range r.Corrections {
		if c.From == "" {
			return fmt.Errorf("%w: correction %d has empty pattern", ErrInvalidInput, i)
		}
		if c.From == c.To {
			return fmt.Errorf("%w: correction %q maps to itself", ErrInvalidInput, c.From)
		}
	}
	for _, c := range r.Corrections {
		for _, other := range r.Corrections {
			if strings.Contains(c.To, other.From) {
				return fmt.Errorf("%w: replacement %q contains pattern %q", ErrInvalidInput, c.To, other.From)
			}
		}
	}
	for _, code := range r.Currencies {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: empty currency code", ErrInvalidInput)
		}
	}
	return nil
}
