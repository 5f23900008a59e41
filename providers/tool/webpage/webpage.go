package webpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/leofalp/webscout/core/extract"
	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
)

const (
	// ToolName is the name read_webpage is advertised under.
	ToolName = "read_webpage"
	// DefaultTimeout bounds one page read. Pages are slower than search
	// endpoints, so this is longer than the fetcher default.
	DefaultTimeout = 15 * time.Second

	// FormatText returns collapsed visible text.
	FormatText = "text"
	// FormatMarkdown returns the page converted to Markdown.
	FormatMarkdown = "markdown"
)

// Reader fetches single pages and extracts their visible text.
type Reader struct {
	fetcher  *fetch.Fetcher
	timeout  time.Duration
	maxChars int
}

// Option configures a Reader.
type Option func(*Reader)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Reader) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMaxChars overrides the extracted text budget.
func WithMaxChars(maxChars int) Option {
	return func(r *Reader) {
		if maxChars > 0 {
			r.maxChars = maxChars
		}
	}
}

// NewReader builds a Reader issuing requests through fetcher.
func NewReader(fetcher *fetch.Fetcher, opts ...Option) *Reader {
	r := &Reader{
		fetcher:  fetcher,
		timeout:  DefaultTimeout,
		maxChars: extract.DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Input is the read_webpage argument set.
type Input struct {
	URL    string `json:"url" jsonschema:"description=Page URL; https:// is assumed when the scheme is missing"`
	Format string `json:"format,omitempty" jsonschema:"description=Output format,enum=text,enum=markdown,default=text"`
}

// Output is the read_webpage result.
type Output struct {
	result.Outcome
	extract.Text
	Format string `json:"format" jsonschema:"description=Format of text"`
}

// NewTool exposes reader.Read as the read_webpage tool.
func NewTool(reader *Reader) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		ToolName,
		reader.Read,
		tool.WithDescription("Read a single webpage and return its visible text (at most 3000 characters). Scripts and styles are stripped."),
	)
}

// Read runs read_webpage. Upstream failures are reported in the Outcome;
// the returned error is always nil.
func (r *Reader) Read(ctx context.Context, input Input) (Output, error) {
	target := NormalizeURL(input.URL)
	call := status.Begin(ctx, ToolName, "Reading webpage: "+result.BoundURL(target))
	call.Progress("Fetching page...")

	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = FormatText
	}
	out := Output{Format: format, Text: extract.Text{SourceURL: result.BoundURL(target)}}

	if target == "" || (format != FormatText && format != FormatMarkdown) {
		out.Outcome = result.Failed(result.KindInvalidInput, "", 0)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	service := serviceName(target)
	res := r.fetcher.GetWithTimeout(ctx, target, r.timeout)
	if !res.OK() {
		out.Outcome = result.FromError(res.Err, service)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	text, err := r.extract(res, format)
	if err == nil && text.Text == "" {
		err = result.Errorf(result.KindEmpty, "no visible text at %s", res.URL)
	}
	if err != nil {
		out.Outcome = result.FromError(err, service)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	text.SourceURL = result.BoundURL(res.URL)
	out.Text = text
	out.Outcome = result.Succeeded()
	call.Done(1, fmt.Sprintf("Extracted %d characters", utf8.RuneCountInString(text.Text)))
	return out, nil
}

func (r *Reader) extract(res fetch.Result, format string) (extract.Text, error) {
	if !isHTML(res.ContentType, res.Body) {
		body, err := decodeText(res.Body, res.ContentType)
		if err != nil {
			return extract.Text{}, result.NewError(result.KindParse, fmt.Errorf("body of %s is not text (%s): %w", res.URL, res.ContentType, err))
		}
		return extract.Bound(utils.CollapseWhitespace(body), r.maxChars), nil
	}

	body, err := decodeHTML(res.Body, res.ContentType)
	if err != nil {
		return extract.Text{}, result.NewError(result.KindParse, fmt.Errorf("error decoding %s: %w", res.URL, err))
	}
	if format == FormatMarkdown {
		return extract.Markdown(body, r.maxChars)
	}
	return extract.FromString(body, r.maxChars)
}

// decodeHTML converts an HTML body to UTF-8. The encoding comes from a BOM,
// the Content-Type charset or a <meta> declaration, in that order; pages with
// none of them are sniffed.
func decodeHTML(body []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("decoded body is not valid UTF-8")
	}
	return string(decoded), nil
}

// decodeText converts a non-HTML body to UTF-8. Only a charset named in the
// Content-Type is honoured; undeclared bytes must already be UTF-8.
func decodeText(body []byte, contentType string) (string, error) {
	if utf8.Valid(body) {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return "", errors.New("invalid UTF-8 and no declared charset")
	}
	enc, name := charset.Lookup(params["charset"])
	if enc == nil || name == "utf-8" {
		return "", fmt.Errorf("cannot decode charset %q", params["charset"])
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// NormalizeURL trims raw and assumes https:// when no scheme is given.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

func isHTML(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"), strings.Contains(ct, "xml"):
		return true
	case ct == "", strings.HasPrefix(ct, "application/octet-stream"):
		head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 512)]))
		return bytes.HasPrefix(head, []byte("<"))
	default:
		return false
	}
}

func serviceName(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "the page"
	}
	return u.Host
}
