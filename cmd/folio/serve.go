package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/scholarsite/folio/internal/carousel"
	"github.com/scholarsite/folio/internal/contact"
	"github.com/scholarsite/folio/internal/site"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: configured listen-addr)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve publications, license and contact endpoints over HTTP",
	Long: `Serve the site's dynamic fragments:

  GET  /publications   carousel items HTML
  GET  /license        rendered license HTML
  POST /contact        validate and forward a contact form (JSON result)
  GET  /year           current copyright year
  GET  /healthz        liveness

Examples:
  folio serve
  folio serve --addr :9000 -v`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	db := mustOpenCache(cfg)
	defer db.Close()

	loader := newLoader(cfg)
	handler := site.NewServer(site.Config{
		Publications: carousel.NewService(loader, cfg.Bibliography,
			carousel.WithCache(db),
			carousel.WithOptions(carouselOptions(cfg)),
			carousel.WithLogger(logger.Named("carousel")),
		),
		Loader:          loader,
		LicenseLocation: cfg.License,
		Contact: contact.NewClient(cfg.ContactEndpoint,
			contact.WithRateLimit(cfg.RateLimit),
			contact.WithLogger(logger.Named("contact")),
		),
		Logger: logger.Named("site"),
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			exitWithError(ExitError, "serving: %v", err)
		}
	case <-cmd.Context().Done():
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			exitWithError(ExitError, "shutting down: %v", err)
		}
	}
	return nil
}
