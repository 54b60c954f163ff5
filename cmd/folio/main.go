// Package main provides the folio CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/scholarsite/folio/internal/config"
	"github.com/scholarsite/folio/internal/source"
	"github.com/scholarsite/folio/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string

	logger = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Publications, contact form and license for an academic portfolio site",
	Long: `folio drives the dynamic parts of an academic portfolio site.

Core features:
  - Parse a BibTeX bibliography into publication records
  - Render the publications carousel with citation and download actions
  - Validate and forward contact form submissions
  - Render the site's Markdown license
  - Serve all of the above over HTTP

Configuration lives in ~/.config/folio/config.yml; FOLIO_* environment
variables and a .env file override it.
All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/folio/config.yml)")
	rootCmd.Version = Version
}

// resolvedConfigPath returns the --config value or the default location.
func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLoader builds a document loader from configuration.
func newLoader(cfg *config.Config) *source.Loader {
	return source.NewLoader(
		source.WithRateLimit(cfg.RateLimit),
		source.WithLogger(logger.Named("source")),
	)
}

// mustOpenCache opens the publication cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenCache(cfg *config.Config) *storage.DB {
	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0755); err != nil {
		exitWithError(ExitConfigError, "creating cache dir: %v", err)
	}
	db, err := storage.OpenDB(cfg.CachePath)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return db
}
