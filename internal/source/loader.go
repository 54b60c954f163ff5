// Package source loads remote or local text documents such as the
// bibliography and the license file.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default number of outbound requests per second.
	DefaultRateLimit = 2.0

	// MaxDocumentSize is the largest response body accepted.
	MaxDocumentSize = 8 << 20
)

// Loader fetches documents over HTTP or from the local filesystem.
type Loader struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) LoaderOption {
	return func(l *Loader) {
		l.httpClient = hc
	}
}

// WithRateLimit sets the maximum outbound requests per second.
// Values <= 0 disable throttling.
func WithRateLimit(perSecond float64) LoaderOption {
	return func(l *Loader) {
		if perSecond <= 0 {
			l.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		l.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load returns the document at location, which is either an http(s) URL or a
// filesystem path. Failures are returned to the caller and never retried.
func (l *Loader) Load(ctx context.Context, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", ErrNoLocation
	}

	start := time.Now()
	var (
		body string
		err  error
	)
	if IsRemote(location) {
		body, err = l.fetch(ctx, location)
	} else {
		body, err = readFile(location)
	}
	if err != nil {
		l.logger.Warn("document load failed",
			zap.String("location", location),
			zap.Error(err),
		)
		return "", err
	}

	l.logger.Debug("document loaded",
		zap.String("location", location),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if len(data) > MaxDocumentSize {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, url, ErrTooLarge)
	}
	return string(data), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
