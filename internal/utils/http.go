package utils

import (
	"errors"
	"io"
	"log/slog"
)

// ErrBodyTooLarge is returned by [ReadLimited] when the body does not fit in
// the allowed number of bytes.
var ErrBodyTooLarge = errors.New("response body exceeds maximum size")

// CloseWithLog closes c and logs, rather than returns, any close error. It is
// meant for deferred response-body closes where the primary error of the
// caller must not be overridden.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// ReadLimited reads r until EOF but never more than limit bytes. When the
// stream holds more than limit bytes it returns the first limit bytes together
// with [ErrBodyTooLarge].
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	// One extra byte tells a body of exactly limit bytes from a larger one.
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > limit {
		return data[:limit], ErrBodyTooLarge
	}
	return data, nil
}
