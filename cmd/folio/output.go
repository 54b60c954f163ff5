package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scholarsite/folio/internal/bibtex"
)

// ListTitleMaxLen bounds titles in human-readable lists.
const ListTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	_ = logger.Sync()
	os.Exit(code)
}

// exitQuiet exits with code after output has already been written.
func exitQuiet(code int) {
	_ = logger.Sync()
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// CitationResponse is the response for the cite command.
type CitationResponse struct {
	ID       string `json:"id"`
	Citation string `json:"citation"`
	Copied   bool   `json:"copied,omitempty"`
}

// printRecordsHuman prints one line per record: key, year and title.
func printRecordsHuman(records []*bibtex.Record) {
	for i, r := range records {
		year := r.Get("year")
		if year == "" {
			year = "----"
		}
		id := r.ID()
		if id == "" {
			id = bibtex.UnknownID
		}
		outputHuman("%d. %s (%s)\n", i+1, id, year)
		outputHuman("   %s\n", truncateString(r.Title(), ListTitleMaxLen))
		outputHuman("   %s\n\n", bibtex.FormatAuthors(r.Get("author")))
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
