package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
)

const (
	// DefaultTimeout is the per-request budget used by Get and GetJSON.
	DefaultTimeout = 10 * time.Second
	// DefaultDelay is the courtesy gap between two requests of the same Fetcher.
	DefaultDelay = time.Second
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (compatible; webscout/1.0; +https://github.com/leofalp/webscout)"
	// DefaultMaxBodySize caps how many body bytes are kept (5MB).
	DefaultMaxBodySize = 5 * 1024 * 1024
	// DialTimeout is the maximum time to wait for a TCP connection
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the maximum time to wait for TLS handshake
	TLSHandshakeTimeout = 10 * time.Second
	// IdleConnTimeout is the maximum time an idle connection can be reused
	IdleConnTimeout = 90 * time.Second
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects = 10

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json"
)

// Fetcher issues single outbound GET requests with a bounded timeout and a
// fixed courtesy delay between requests. It performs no retries. A Fetcher is
// safe for concurrent use; its only shared state is the HTTP client and the
// delay limiter, both goroutine-safe.
type Fetcher struct {
	options Options
	client  *http.Client
	limiter *rate.Limiter
}

// New builds a Fetcher from the defaults overridden by opts.
func New(opts ...Option) *Fetcher {
	options := applyOptions(opts...)

	client := options.HTTPClient
	if client == nil {
		client = newHTTPClient()
	}

	limit := rate.Inf
	if options.Delay > 0 {
		limit = rate.Every(options.Delay)
	}

	return &Fetcher{
		options: options,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// newHTTPClient mirrors a browser-ish transport with explicit dial and TLS
// budgets. The overall deadline comes from the per-call context.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			IdleConnTimeout:     IdleConnTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			ForceAttemptHTTP2:   true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects (>%d)", MaxRedirects)
			}
			return nil
		},
	}
}

// Options returns a copy of the effective configuration.
func (f *Fetcher) Options() Options {
	return f.options
}

// Get fetches rawURL as HTML/text within the default timeout.
func (f *Fetcher) Get(ctx context.Context, rawURL string) Result {
	return f.GetWithTimeout(ctx, rawURL, f.options.Timeout)
}

// GetWithTimeout fetches rawURL as HTML/text within timeout. A non-positive
// timeout falls back to the Fetcher's default.
func (f *Fetcher) GetWithTimeout(ctx context.Context, rawURL string, timeout time.Duration) Result {
	return f.do(ctx, rawURL, acceptHTML, timeout)
}

// GetJSON fetches rawURL and decodes the body into v. A body that is not
// valid JSON for v yields a parse_error result; the raw body is still kept.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, v any) Result {
	res := f.do(ctx, rawURL, acceptJSON, f.options.Timeout)
	if !res.OK() {
		return res
	}
	if err := json.Unmarshal(res.Body, v); err != nil {
		res.Err = result.NewError(result.KindParse, fmt.Errorf("error parsing response: %w", err))
		f.logFailure(ctx, res)
	}
	return res
}

func (f *Fetcher) do(ctx context.Context, rawURL string, accept string, timeout time.Duration) Result {
	res := Result{URL: rawURL}

	target, err := validateURL(rawURL)
	if err != nil {
		res.Err = err
		return res
	}

	if timeout <= 0 {
		timeout = f.options.Timeout
	}

	// The courtesy delay is not part of the request budget.
	if err := f.limiter.Wait(ctx); err != nil {
		res.Err = result.NewError(result.KindNetwork, fmt.Errorf("request canceled before start: %w", err))
		return res
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodGet, target.String(), nil)
	if err != nil {
		res.Err = result.NewError(result.KindInvalidInput, fmt.Errorf("failed to create request: %w", err))
		return res
	}
	httpReq.Header.Set("User-Agent", f.options.UserAgent)
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")

	timer := utils.NewTimer()
	resp, err := f.client.Do(httpReq)
	if err != nil {
		res.Err = classifyTransportError(ctxWithTimeout, err, timeout)
		f.logFailure(ctx, res, "duration", timer.Stop())
		return res
	}
	defer utils.CloseWithLog(resp.Body)

	res.URL = resp.Request.URL.String()
	res.StatusCode = resp.StatusCode
	res.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Err = result.HTTPError(resp.StatusCode, resp.Status)
		f.logFailure(ctx, res, "duration", timer.Stop())
		return res
	}

	body, err := utils.ReadLimited(resp.Body, f.options.MaxBodySize)
	switch {
	case errors.Is(err, utils.ErrBodyTooLarge):
		res.Truncated = true
	case err != nil:
		res.Err = classifyTransportError(ctxWithTimeout, fmt.Errorf("failed to read response body: %w", err), timeout)
		f.logFailure(ctx, res, "duration", timer.Stop())
		return res
	}
	res.Body = body

	f.options.Logger.DebugContext(ctx, "fetch completed",
		slog.String("url", res.URL),
		slog.Int("status", res.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Bool("truncated", res.Truncated),
		slog.Duration("duration", timer.Stop()),
	)
	return res
}

func (f *Fetcher) logFailure(ctx context.Context, res Result, args ...any) {
	attrs := append([]any{
		slog.String("url", res.URL),
		slog.String("kind", res.Err.Kind.String()),
		slog.String("error", res.Err.Error()),
	}, args...)
	f.options.Logger.DebugContext(ctx, "fetch failed", attrs...)
}

// validateURL accepts absolute http(s) URLs with a host.
func validateURL(rawURL string) (*url.URL, *result.Error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, result.Errorf(result.KindInvalidInput, "URL cannot be empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, result.NewError(result.KindInvalidInput, fmt.Errorf("invalid URL %q: %w", trimmed, err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, result.Errorf(result.KindInvalidInput, "unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, result.Errorf(result.KindInvalidInput, "URL %q has no host", trimmed)
	}
	return parsed, nil
}

// classifyTransportError maps client and body-read failures to network_error,
// naming timeouts explicitly.
func classifyTransportError(ctx context.Context, err error, timeout time.Duration) *result.Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result.NewError(result.KindNetwork, fmt.Errorf("request timeout after %s: %w", timeout, err))
	}
	if ctx.Err() != nil {
		return result.NewError(result.KindNetwork, fmt.Errorf("request canceled: %w", err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return result.NewError(result.KindNetwork, fmt.Errorf("request timeout: %w", err))
	}
	return result.NewError(result.KindNetwork, fmt.Errorf("failed to fetch URL: %w", err))
}
