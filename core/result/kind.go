package result

import (
	"errors"
	"fmt"
)

// Kind is a failure category surfaced to callers instead of a raised error.
type Kind string

const (
	// KindNone marks a successful outcome.
	KindNone Kind = ""
	// KindNetwork covers connection failures and timeouts.
	KindNetwork Kind = "network_error"
	// KindHTTP covers well-formed responses with a non-2xx status.
	KindHTTP Kind = "http_error"
	// KindParse covers bodies (HTML or JSON) that could not be decoded.
	KindParse Kind = "parse_error"
	// KindEmpty covers well-formed responses with zero matches.
	KindEmpty Kind = "empty_result"
	// KindInvalidInput covers queries, URLs or package names rejected before any request.
	KindInvalidInput Kind = "invalid_input"
)

// Kinds lists every failure kind, in the order they are documented.
var Kinds = []Kind{KindNetwork, KindHTTP, KindParse, KindEmpty, KindInvalidInput}

// String returns the wire name of k.
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

// Error is a failure tagged with a Kind. StatusCode is only set for KindHTTP.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

// NewError wraps err with the given kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds an Error of the given kind from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// HTTPError builds a KindHTTP error for the given status code.
func HTTPError(statusCode int, status string) *Error {
	return &Error{
		Kind:       KindHTTP,
		StatusCode: statusCode,
		Err:        fmt.Errorf("unexpected status code: %d %s", statusCode, status),
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, &result.Error{Kind: result.KindParse}) works on wrapped chains.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}

// KindOf returns the kind carried by err, KindNone for nil and KindNetwork for
// untyped errors (anything that escaped classification happened on the wire).
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindNetwork
}
