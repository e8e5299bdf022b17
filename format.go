package itfaker

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatName lowercases s and capitalizes the first letter of every word
// using Italian casing rules: "GIUSEPPE VERDI" -> "Giuseppe Verdi".
// The empty string is returned unchanged.
func FormatName(s string) string {
	if s == "" {
		return s
	}
	// cases.Caser is stateful and not safe for concurrent use
	lower := cases.Lower(language.Italian).String(s)
	return cases.Title(language.Italian).String(lower)
}
