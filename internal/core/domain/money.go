package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is printed before amounts on invoices.
const CurrencySymbol = "R"

// FormatRand renders an amount the way invoices print it: the currency
// symbol, thousands separated by spaces and two decimals, e.g.
// "R 35 758.00".
func FormatRand(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return CurrencySymbol + " " + sign + b.String() + "." + frac
}
