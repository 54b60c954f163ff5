package main

import (
	"strings"

	"github.com/scholarsite/folio/internal/bibtex"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors <author-field>",
	Short: "Format a BibTeX author field for display",
	Long: `Format a BibTeX author field ("Last, First and Last, First") as it
appears on the publications carousel ("F. Last, F. Last").

Examples:
  folio authors "Smith, John and Lee, A"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatted := bibtex.FormatAuthors(strings.Join(args, " "))
		if humanOutput {
			outputHuman("%s\n", formatted)
			return nil
		}
		return outputJSON(map[string]string{"authors": formatted})
	},
}
