package fetch

import "github.com/leofalp/webscout/core/result"

// Result is the outcome of one request. It is built once per call and never
// mutated by the Fetcher after it is returned.
type Result struct {
	// URL is the final URL after redirects, or the requested URL on failure.
	URL string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// ContentType is the response Content-Type header.
	ContentType string
	// Body holds at most MaxBodySize bytes of the response.
	Body []byte
	// Truncated is set when the body was cut at MaxBodySize.
	Truncated bool
	// Err is nil on success.
	Err *result.Error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Failure returns Err as an error interface, nil on success.
func (r Result) Failure() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Kind returns the failure kind, KindNone on success.
func (r Result) Kind() result.Kind {
	if r.Err == nil {
		return result.KindNone
	}
	return r.Err.Kind
}
