package main

import (
	"context"

	"github.com/scholarsite/folio/internal/bibtex"
	"github.com/scholarsite/folio/internal/config"
	"github.com/scholarsite/folio/internal/source"
	"github.com/spf13/cobra"
)

var parseNoSort bool

func init() {
	parseCmd.Flags().BoolVar(&parseNoSort, "no-sort", false, "Keep source order instead of sorting by year")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [file-or-url]",
	Short: "Parse a bibliography into publication records",
	Long: `Parse a BibTeX bibliography into publication records.

Without an argument the configured bibliography is used. Records are sorted by
year (oldest first) unless --no-sort is given.

Examples:
  folio parse
  folio parse publications.bib --human
  folio parse https://example.org/publications.bib --no-sort`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	records := mustLoadRecords(cmd.Context(), cfg, locationArg(args, cfg.Bibliography))
	if !parseNoSort {
		bibtex.SortByYear(records)
	}

	if humanOutput {
		if len(records) == 0 {
			outputHuman("No entries found.\n")
			return nil
		}
		printRecordsHuman(records)
		return nil
	}
	return outputJSON(records)
}

// locationArg returns the first argument, or fallback if none was given.
func locationArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

// mustLoadRecords loads and parses the bibliography at location, exits on error.
func mustLoadRecords(ctx context.Context, cfg *config.Config, location string) []*bibtex.Record {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := newLoader(cfg).Load(ctx, location)
	if err != nil {
		if source.IsNotFound(err) {
			exitWithError(ExitFetchError, "bibliography not found: %v", err)
		}
		exitWithError(ExitFetchError, "loading bibliography: %v", err)
	}
	parser := bibtex.NewParser(bibtex.WithLogger(logger.Named("bibtex")))
	return parser.Parse(body)
}
