package bibtex

import "strings"

// UnknownAuthor is shown when an entry has no author field.
const UnknownAuthor = "Unknown Author"

// FormatAuthors converts a BibTeX author list ("Last, First and Last, First")
// into display form ("F. Last, F. Last"). A name without a first-name part
// renders as " Last", keeping the leading space.
func FormatAuthors(authors string) string {
	if authors == "" {
		return UnknownAuthor
	}

	names := strings.Split(authors, " and ")
	formatted := make([]string, len(names))
	for i, name := range names {
		parts := strings.Split(name, ", ")
		initial := ""
		if len(parts) > 1 && parts[1] != "" {
			initial = firstRune(parts[1]) + "."
		}
		formatted[i] = initial + " " + parts[0]
	}
	return strings.Join(formatted, ", ")
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
