package fetch

import (
	"log/slog"
	"net/http"
	"time"
)

// Options is the Fetcher configuration. Zero values are replaced by the
// package defaults in [New].
type Options struct {
	// Timeout is the per-request budget.
	Timeout time.Duration
	// Delay is the minimum gap between two requests; zero disables it.
	Delay time.Duration
	// UserAgent is sent with every request.
	UserAgent string
	// MaxBodySize is the number of body bytes kept; larger bodies are cut.
	MaxBodySize int64
	// HTTPClient replaces the default client (tests, proxies).
	HTTPClient *http.Client
	// Logger receives debug records for every request.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithDelay sets the courtesy delay between requests. Zero disables it.
func WithDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.Delay = delay
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		o.UserAgent = userAgent
	}
}

// WithMaxBodySize caps the kept body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(o *Options) {
		o.MaxBodySize = size
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithLogger sets the logger used for request records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func applyOptions(opts ...Option) Options {
	o := Options{
		Timeout:     DefaultTimeout,
		Delay:       DefaultDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxBodySize <= 0 {
		o.MaxBodySize = DefaultMaxBodySize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
