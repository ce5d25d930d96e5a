package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client is a wrapper for HTTP client with rate limiting
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter

	maxRetries      int
	maxRetryTimeout time.Duration
	logger          zerolog.Logger
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetries      int // 0 means retry until MaxRetryTimeout
	MaxRetryTimeout time.Duration
	// Logger is the parent logger; nil uses the global zerolog logger.
	Logger *zerolog.Logger
}

// secretParams are query parameters never written to logs.
var secretParams = []string{"appid", "apikey", "api_key", "key", "token"}

// NewClient creates a new HTTP client with rate limiting
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 30 * time.Second
	}

	parent := log.Logger
	if opts.Logger != nil {
		parent = *opts.Logger
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Limiter:         rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		maxRetries:      opts.MaxRetries,
		maxRetryTimeout: opts.MaxRetryTimeout,
		logger:          parent.With().Str("component", "http_client").Logger(),
	}
}

// DoRequest performs an HTTP request with rate limiting and retries.
// Client errors (4xx other than 429) are not retried.
func (c *Client) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0
	operation := func() error {
		// Every attempt, retries included, waits for the limiter
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		r, err := c.HTTPClient.Do(req.Clone(ctx))
		if err != nil {
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				urlErr.URL = RedactURL(req.URL)
			}
			return err
		}
		if r.StatusCode != http.StatusOK {
			r.Body.Close()
			statusErr := &HTTPStatusError{StatusCode: r.StatusCode}
			if !statusErr.Retryable() {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}
		resp = r
		return nil
	}

	// Use exponential backoff for retries
	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = c.maxRetryTimeout

	var strategy backoff.BackOff = exp
	if c.maxRetries > 0 {
		strategy = backoff.WithMaxRetries(strategy, uint64(c.maxRetries))
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).
			Str("url", RedactURL(req.URL)).Msg("Retrying request")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify); err != nil {
		return nil, err
	}

	return resp, nil
}

// RedactURL renders u for logging with credentials and secret query
// parameters masked.
func RedactURL(u *url.URL) string {
	clean := *u
	q := clean.Query()
	for key := range q {
		for _, secret := range secretParams {
			if strings.EqualFold(key, secret) {
				q.Set(key, "xxxxx")
			}
		}
	}
	clean.RawQuery = q.Encode()
	return clean.Redacted()
}

// HTTPStatusError represents an error due to a non-200 HTTP status code
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return "non-200 status code: " + http.StatusText(e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPStatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
