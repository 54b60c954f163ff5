package main

import (
	"context"
	"fmt"

	"github.com/scholarsite/folio/internal/carousel"
	"github.com/scholarsite/folio/internal/config"
	"github.com/spf13/cobra"
)

var renderNoCache bool

func init() {
	renderCmd.Flags().BoolVar(&renderNoCache, "no-cache", false, "Do not read or update the publication cache")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [file-or-url]",
	Short: "Render the publications carousel HTML",
	Long: `Render the publications carousel items as HTML.

Publications are sorted by year. A successful load refreshes the publication
cache; if loading fails, the cached publications are rendered instead. With
nothing cached, the error item is printed and the exit code is non-zero.
Output is always HTML.

Examples:
  folio render > _includes/publications.html
  folio render publications.bib --no-cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	location := locationArg(args, cfg.Bibliography)

	opts := []carousel.ServiceOption{
		carousel.WithOptions(carouselOptions(cfg)),
		carousel.WithLogger(logger.Named("carousel")),
	}
	if !renderNoCache {
		db := mustOpenCache(cfg)
		defer db.Close()
		opts = append(opts, carousel.WithCache(db))
	}
	svc := carousel.NewService(newLoader(cfg), location, opts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := svc.Publications(ctx)
	if err != nil {
		fmt.Println(carousel.ErrorItem)
		exitWithError(ExitFetchError, "%v", err)
	}

	html, err := carousel.Render(records, carouselOptions(cfg))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	fmt.Print(html)
	return nil
}

func carouselOptions(cfg *config.Config) carousel.Options {
	return carousel.Options{
		OwnerName:    cfg.OwnerName,
		DefaultImage: cfg.DefaultImage,
	}
}
