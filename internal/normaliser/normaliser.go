package normaliser

import (
	"strings"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/rules"
)

// Normaliser repairs spacing defects line by line.
// It is immutable after construction and safe for concurrent use.
type Normaliser struct {
	pipeline *Pipeline
}

// New creates a normaliser using the given correction table.
// The table is copied; later changes to it have no effect.
func New(table []domain.Correction) *Normaliser {
	own := make([]domain.Correction, len(table))
	copy(own, table)

	return &Normaliser{
		pipeline: NewPipeline(
			unicodeFold(),
			caseSpacing(),
			digitSpacing(),
			punctSpacing(),
			numericRepair(),
			corrections(own),
			collapse(),
		),
	}
}

// Default creates a normaliser using the built-in correction table.
func Default() *Normaliser {
	return New(rules.Default().Corrections)
}

// Normalise cleans every line of text independently and rejoins them.
// Empty input is returned unchanged. The output has exactly as many
// lines as the input.
func (n *Normaliser) Normalise(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = n.pipeline.Apply(line)
	}
	return strings.Join(lines, "\n")
}

// NormaliseLine cleans a single line. Embedded newlines are treated as
// whitespace.
func (n *Normaliser) NormaliseLine(line string) string {
	return n.pipeline.Apply(line)
}

// Layers returns the layer names in execution order.
func (n *Normaliser) Layers() []string {
	return n.pipeline.Names()
}
