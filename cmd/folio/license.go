package main

import (
	"fmt"

	"github.com/scholarsite/folio/internal/license"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(licenseCmd)
}

var licenseCmd = &cobra.Command{
	Use:   "license [file-or-url]",
	Short: "Render the license Markdown as HTML",
	Long: `Render the site's license document (Markdown) as HTML.

On failure the fallback alert is printed and the exit code is non-zero.
Output is always HTML.

Examples:
  folio license
  folio license LICENSE.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLicense,
}

func runLicense(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	location := locationArg(args, cfg.License)

	text, err := newLoader(cfg).Load(cmd.Context(), location)
	if err != nil {
		fmt.Println(license.ErrorHTML(license.MsgLoadFailed, location))
		logger.Error("loading license", zap.Error(err))
		exitQuiet(ExitFetchError)
	}

	html, err := license.Render(text)
	if err != nil {
		fmt.Println(license.ErrorHTML(err.Error(), location))
		exitQuiet(ExitError)
	}
	fmt.Println(html)
	return nil
}
