package normaliser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// Layer names, in default pipeline order.
const (
	LayerUnicodeFold   = "unicode_fold"
	LayerCaseSpacing   = "case_spacing"
	LayerDigitSpacing  = "digit_spacing"
	LayerPunctSpacing  = "punct_spacing"
	LayerNumericRepair = "numeric_repair"
	LayerCorrections   = "corrections"
	LayerCollapse      = "collapse"
)

// rewrite is a single regular expression substitution.
type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// regexLayer applies its rewrites in order.
type regexLayer struct {
	name     string
	rewrites []rewrite
}

func (l *regexLayer) Name() string { return l.name }

func (l *regexLayer) Apply(line string) string {
	for _, rw := range l.rewrites {
		line = rw.re.ReplaceAllString(line, rw.repl)
	}
	return line
}

// funcLayer wraps a plain function as a Layer.
type funcLayer struct {
	name string
	fn   func(string) string
}

func (l *funcLayer) Name() string { return l.name }

func (l *funcLayer) Apply(line string) string { return l.fn(line) }

var (
	caseTransitionRe = regexp.MustCompile(`([a-z])([A-Z])`)
	digitLetterRe    = regexp.MustCompile(`(\d)([A-Za-z])`)
	letterDigitRe    = regexp.MustCompile(`([A-Za-z])(\d)`)
	punctAfterRe     = regexp.MustCompile(`([.,:;!?])([A-Za-z0-9])`)
	punctBeforeRe    = regexp.MustCompile(`([A-Za-z0-9])([.,:;!?])`)
	decimalRe        = regexp.MustCompile(`(\d+)\s*\.\s*(\d+)`)
	thousandsRe      = regexp.MustCompile(`(\d)\s*,\s*(\d{3})\b`)
	timeRe           = regexp.MustCompile(`(\d{1,2})\s*:\s*(\d{2})\b`)
	// A lone capital letter or currency symbol followed by digits, e.g.
	// "G 846886" or "R 35 758". Letters glued to a longer word are left
	// alone so "ZAR 1688" keeps its space.
	codeRe           = regexp.MustCompile(`(^|[^A-Za-z0-9])([A-Z$€£¥])\s*(\d{1,3}(?:\s+\d{3})+|\d+)`)
	whitespaceRe     = regexp.MustCompile(`[\s\v\p{Zs}]+`)
)

// unicodeFold maps compatibility characters (ligatures, full-width forms,
// non-breaking spaces) to their plain equivalents.
func unicodeFold() Layer {
	return &funcLayer{name: LayerUnicodeFold, fn: norm.NFKC.String}
}

func caseSpacing() Layer {
	return &regexLayer{
		name:     LayerCaseSpacing,
		rewrites: []rewrite{{caseTransitionRe, "$1 $2"}},
	}
}

func digitSpacing() Layer {
	return &regexLayer{
		name: LayerDigitSpacing,
		rewrites: []rewrite{
			{digitLetterRe, "$1 $2"},
			{letterDigitRe, "$1 $2"},
		},
	}
}

func punctSpacing() Layer {
	return &regexLayer{
		name: LayerPunctSpacing,
		rewrites: []rewrite{
			{punctAfterRe, "$1 $2"},
			{punctBeforeRe, "$1 $2"},
		},
	}
}

// numericRepair undoes spacing inside numbers, including spacing added by
// the punctuation layer.
func numericRepair() Layer {
	return &funcLayer{name: LayerNumericRepair, fn: repairNumbers}
}

func repairNumbers(line string) string {
	line = decimalRe.ReplaceAllString(line, "$1.$2")
	line = thousandsRe.ReplaceAllString(line, "$1,$2")
	line = timeRe.ReplaceAllString(line, "$1:$2")
	return codeRe.ReplaceAllStringFunc(line, func(match string) string {
		m := codeRe.FindStringSubmatch(match)
		digits := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, m[3])
		return m[1] + m[2] + digits
	})
}

// correctionLayer applies the known-phrase table as literal replacements,
// one entry at a time, in table order. Patterns are single-spaced, so
// whitespace runs are collapsed first.
type correctionLayer struct {
	table []domain.Correction
}

func corrections(table []domain.Correction) Layer {
	return &correctionLayer{table: table}
}

func (l *correctionLayer) Name() string { return LayerCorrections }

func (l *correctionLayer) Apply(line string) string {
	line = collapseWhitespace(line)
	for _, c := range l.table {
		if c.From == "" {
			continue
		}
		line = strings.ReplaceAll(line, c.From, c.To)
	}
	return line
}

func collapse() Layer {
	return &funcLayer{name: LayerCollapse, fn: collapseWhitespace}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
