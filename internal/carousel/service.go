package carousel

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarsite/folio/internal/bibtex"
	"github.com/scholarsite/folio/internal/storage"
	"go.uber.org/zap"
)

// Loader fetches the raw bibliography text.
type Loader interface {
	Load(ctx context.Context, location string) (string, error)
}

// Cache stores the last successfully loaded publications.
type Cache interface {
	SaveSnapshot(source, body string, records []*bibtex.Record, fetchedAt time.Time) error
	LatestSnapshot() (*storage.Snapshot, error)
	ListPublications() ([]*bibtex.Record, error)
}

// Service loads, parses, orders and renders the bibliography.
type Service struct {
	loader   Loader
	cache    Cache
	parser   *bibtex.Parser
	location string
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache enables snapshotting and offline fallback.
func WithCache(c Cache) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

// WithOptions sets the rendering options.
func WithOptions(opts Options) ServiceOption {
	return func(s *Service) {
		s.opts = opts
	}
}

// WithLogger sets the service logger. The parser traces through it too.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service reading the bibliography at location.
func NewService(loader Loader, location string, opts ...ServiceOption) *Service {
	s := &Service{
		loader:   loader,
		location: location,
		opts:     DefaultOptions(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = bibtex.NewParser(bibtex.WithLogger(s.logger.Named("bibtex")))
	return s
}

// Publications loads the bibliography and returns its records sorted by
// year. When loading fails and a cached snapshot exists, the cached records
// are returned instead.
func (s *Service) Publications(ctx context.Context) ([]*bibtex.Record, error) {
	body, err := s.loader.Load(ctx, s.location)
	if err != nil {
		return s.fallback(err)
	}

	records := s.parser.Parse(body)
	bibtex.SortByYear(records)

	s.snapshot(body, records)
	return records, nil
}

// snapshot caches records unless the latest snapshot already holds body.
func (s *Service) snapshot(body string, records []*bibtex.Record) {
	if s.cache == nil {
		return
	}

	latest, err := s.cache.LatestSnapshot()
	if err != nil {
		s.logger.Warn("reading latest snapshot failed", zap.Error(err))
	}
	if latest != nil && latest.Source == s.location && latest.Body == body {
		return
	}

	if err := s.cache.SaveSnapshot(s.location, body, records, s.now()); err != nil {
		s.logger.Warn("caching publications failed", zap.Error(err))
	}
}

func (s *Service) fallback(loadErr error) ([]*bibtex.Record, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("loading publications: %w", loadErr)
	}

	records, err := s.cache.ListPublications()
	if err != nil {
		s.logger.Warn("reading cached publications failed", zap.Error(err))
		return nil, fmt.Errorf("loading publications: %w", loadErr)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("loading publications: %w", loadErr)
	}

	s.logger.Warn("serving cached publications",
		zap.Int("entries", len(records)),
		zap.Error(loadErr),
	)
	return records, nil
}

// RenderHTML renders the carousel items, or ErrorItem when the
// publications cannot be loaded.
func (s *Service) RenderHTML(ctx context.Context) string {
	records, err := s.Publications(ctx)
	if err != nil {
		s.logger.Error("loading publications", zap.Error(err))
		return ErrorItem
	}

	html, err := Render(records, s.opts)
	if err != nil {
		s.logger.Error("rendering publications", zap.Error(err))
		return ErrorItem
	}
	return html
}
