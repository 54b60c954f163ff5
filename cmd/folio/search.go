package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

// DefaultSearchLimit is the default limit for search results.
const DefaultSearchLimit = 50

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cached publications by key, title or author",
	Long: `Search the publication cache with full-text matching on key, title and
author. The cache is refreshed by 'folio render' and 'folio serve'.

Examples:
  folio search cortex
  folio search "wavelet chaos" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenCache(cfg)
	defer db.Close()

	records, err := db.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching cache: %v", err)
	}

	if len(records) == 0 {
		total, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "counting cached publications: %v", err)
		}
		if total == 0 {
			exitWithError(ExitDataError, "publication cache is empty\n\nRun 'folio render' or 'folio serve' first.")
		}
	}

	if humanOutput {
		if len(records) == 0 {
			outputHuman("No publications found.\n")
			return nil
		}
		printRecordsHuman(records)
		return nil
	}
	return outputJSON(records)
}
