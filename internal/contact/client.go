package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is the default number of submissions per second.
	DefaultRateLimit = 1.0
)

// Result messages shown to the visitor after a submission attempt.
const (
	MsgSent   = "Thank you for your message! I will get back to you soon."
	MsgFailed = "Oops! There was a problem submitting your form."
)

// Form field names expected by the form endpoint.
const (
	FieldName    = "userName"
	FieldEmail   = "userEmail"
	FieldPhone   = "userPhone"
	FieldMessage = "userMessage"
)

var (
	// ErrNoEndpoint indicates no form endpoint is configured.
	ErrNoEndpoint = errors.New("contact endpoint not configured")

	// ErrRejected indicates the endpoint answered without ok=true.
	ErrRejected = errors.New("form submission rejected")
)

// Result is the outcome of a submission, ready to show to the visitor.
type Result struct {
	Valid   bool   `json:"valid"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Client posts contact forms to a form-handling endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the maximum submissions per second.
// Values <= 0 disable throttling.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client posting to endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		endpoint:   endpoint,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitResponse struct {
	OK bool `json:"ok"`
}

// Submit sends an already validated form as multipart form data.
func (c *Client) Submit(ctx context.Context, f Form) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, contentType, err := encodeForm(f)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting form: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var sr submitResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return fmt.Errorf("%w: HTTP %d, unparseable response", ErrRejected, resp.StatusCode)
	}
	if !sr.OK {
		return fmt.Errorf("%w: HTTP %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

// Send trims and validates f, submits it when valid, and reports the outcome
// as a visitor-facing Result. The returned error is non-nil only for
// submission failures; validation failures are reported in the Result.
func (c *Client) Send(ctx context.Context, f Form) (Result, error) {
	f = f.Trimmed()
	if err := f.Validate(); err != nil {
		return Result{Valid: false, Message: err.Error()}, nil
	}

	if err := c.Submit(ctx, f); err != nil {
		c.logger.Error("contact form submission failed", zap.Error(err))
		return Result{Valid: true, Message: MsgFailed}, err
	}

	c.logger.Info("contact form submitted", zap.Int("message_length", len(f.Message)))
	return Result{Valid: true, OK: true, Message: MsgSent}, nil
}

func encodeForm(f Form) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{FieldName, f.Name},
		{FieldEmail, f.Email},
		{FieldPhone, f.Phone},
		{FieldMessage, f.Message},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("encoding %s: %w", field.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encoding form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
