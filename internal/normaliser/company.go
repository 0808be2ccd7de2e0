package normaliser

import "regexp"

var (
	letterCommaRe = regexp.MustCompile(`([A-Za-z]),`)
	commaLetterRe = regexp.MustCompile(`,([A-Za-z])`)
)

// CleanCompanyInfo is a lighter cleanup for company names and addresses.
// It only separates digits from letters and puts a space after commas;
// there is no correction table.
func CleanCompanyInfo(s string) string {
	if s == "" {
		return s
	}
	s = digitLetterRe.ReplaceAllString(s, "$1 $2")
	s = letterDigitRe.ReplaceAllString(s, "$1 $2")
	s = letterCommaRe.ReplaceAllString(s, "$1, ")
	s = commaLetterRe.ReplaceAllString(s, ", $1")
	return collapseWhitespace(s)
}
