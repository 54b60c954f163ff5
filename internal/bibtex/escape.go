package bibtex

import (
	"fmt"
	"strings"
)

// UnknownID replaces a missing citation key in rendered entries.
const UnknownID = "unknown"

// excludedFields are left out of rendered citations.
var excludedFields = map[string]bool{
	"url":   true,
	"image": true,
}

var attrReplacer = strings.NewReplacer(
	`"`, "&quot;",
	"'", "&#39;",
	"\n", `\n`,
)

// FormatEntry renders a record as BibTeX text. The header type is always
// "article" (the parsed type is kept as an entryType field) and url/image
// fields are dropped, so the result does not reproduce the parsed source.
func FormatEntry(rec *Record) string {
	id := rec.ID()
	if id == "" {
		id = UnknownID
	}

	var lines []string
	for _, f := range rec.Fields() {
		if excludedFields[f.Name] {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s={%s}", f.Name, f.Value))
	}

	return fmt.Sprintf("@article{%s,\n%s\n}", id, strings.Join(lines, ",\n"))
}

// EscapeBib renders a record with FormatEntry and escapes it for a
// single-quoted HTML attribute on one line: double and single quotes become
// entities and newlines become a literal backslash-n. '<', '>' and '&' are
// not escaped.
func EscapeBib(rec *Record) string {
	return attrReplacer.Replace(FormatEntry(rec))
}
