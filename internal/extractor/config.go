package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/voucherbill/internal/normaliser"
)

// amountPattern matches a monetary amount with optional comma grouping.
const amountPattern = `\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`

// Config carries what detectors need beyond the line itself.
type Config struct {
	Currencies []string

	// currencyRe matches any known currency code as a whole word.
	currencyRe *regexp.Regexp
	// amountRe matches "<qty> <CUR> <rate> <total>".
	amountRe *regexp.Regexp

	norm *normaliser.Normaliser
}

// NewConfig compiles the currency-dependent patterns.
func NewConfig(currencies []string, norm *normaliser.Normaliser) (*Config, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("extractor: at least one currency is required")
	}
	if norm == nil {
		norm = normaliser.Default()
	}

	quoted := make([]string, len(currencies))
	for i, c := range currencies {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("extractor: blank currency code")
		}
		quoted[i] = regexp.QuoteMeta(c)
	}
	codes := strings.Join(quoted, "|")

	return &Config{
		Currencies: append([]string(nil), currencies...),
		currencyRe: regexp.MustCompile(`\b(?:` + codes + `)\b`),
		amountRe: regexp.MustCompile(
			`(\d+)\s*(` + codes + `)\s*(` + amountPattern + `)\s+(` + amountPattern + `)`),
		norm: norm,
	}, nil
}

// hasCurrency reports whether line mentions a known currency code.
func (c *Config) hasCurrency(line string) bool {
	return c.currencyRe.MatchString(line)
}

// amountLine is the parsed "<qty> <CUR> <rate> <total>" tail of a line.
type amountLine struct {
	prefix   string
	qty      string
	currency string
	rate     string
	total    string
}

// parseAmounts locates the amount tail of line.
func (c *Config) parseAmounts(line string) (amountLine, bool) {
	loc := c.amountRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return amountLine{}, false
	}
	return amountLine{
		prefix:   strings.TrimSpace(line[:loc[0]]),
		qty:      line[loc[2]:loc[3]],
		currency: line[loc[4]:loc[5]],
		rate:     line[loc[6]:loc[7]],
		total:    line[loc[8]:loc[9]],
	}, true
}
