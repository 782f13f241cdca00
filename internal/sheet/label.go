package sheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel folds cell text for label and token comparison: NFC,
// Greek upper case (which drops the tonos, so "Ρεπό" reads "ΡΕΠΟ"), and no
// whitespace at all.
func NormalizeLabel(s string) string {
	if s == "" {
		return ""
	}
	s = cases.Upper(language.Greek).String(norm.NFC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeLabelValue is NormalizeLabel over a cell. Only text cells carry
// labels; every other kind folds to "".
func NormalizeLabelValue(v Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	return NormalizeLabel(s)
}
