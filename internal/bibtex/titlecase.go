package bibtex

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase lowercases s and then uppercases the first letter or digit of
// every whitespace-delimited word. Leading punctuation such as "(" or "{"
// does not count as the start of the word.
func TitleCase(s string) string {
	lower := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lower))
	atWordStart := true
	for _, r := range lower {
		switch {
		case unicode.IsSpace(r):
			atWordStart = true
		case atWordStart && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
