package result

import (
	"errors"
	"fmt"

	"github.com/leofalp/webscout/internal/utils"
)

// Field budgets, in runes, for text that crosses the tool boundary.
const (
	MaxTitleRunes   = 200
	MaxSnippetRunes = 300
	MaxURLRunes     = 2048
	MaxQueryRunes   = 500
)

// Status is the tag of an Outcome.
type Status string

const (
	// StatusSuccess marks an outcome without error.
	StatusSuccess Status = "success"
	// StatusFailure marks an outcome carrying an ErrorKind and Message.
	StatusFailure Status = "failure"
)

// Outcome is embedded in every tool output. A failure always carries a Kind
// and a short fallback message; a success carries neither.
type Outcome struct {
	Status    Status `json:"status" jsonschema:"description=success or failure,enum=success,enum=failure"`
	ErrorKind Kind   `json:"error_kind,omitempty" jsonschema:"description=Failure category when status is failure"`
	Message   string `json:"message,omitempty" jsonschema:"description=Human readable fallback message when status is failure"`
}

// Succeeded returns a success outcome.
func Succeeded() Outcome {
	return Outcome{Status: StatusSuccess}
}

// Failed returns a failure outcome for kind. service names the upstream in the
// message ("search service", "PyPI"); statusCode is only used for KindHTTP.
func Failed(kind Kind, service string, statusCode int) Outcome {
	return Outcome{
		Status:    StatusFailure,
		ErrorKind: kind,
		Message:   FallbackMessage(kind, service, statusCode),
	}
}

// FromError converts err into an outcome. A nil err is a success.
func FromError(err error, service string) Outcome {
	if err == nil {
		return Succeeded()
	}
	statusCode := 0
	var re *Error
	if errors.As(err, &re) {
		statusCode = re.StatusCode
	}
	return Failed(KindOf(err), service, statusCode)
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// FallbackMessage returns the fixed user-facing message for kind.
func FallbackMessage(kind Kind, service string, statusCode int) string {
	if service == "" {
		service = "upstream service"
	}
	switch kind {
	case KindNone:
		return ""
	case KindNetwork:
		return fmt.Sprintf("could not reach %s", service)
	case KindHTTP:
		if statusCode > 0 {
			return fmt.Sprintf("%s returned HTTP %d", service, statusCode)
		}
		return fmt.Sprintf("%s returned an error status", service)
	case KindParse:
		return fmt.Sprintf("could not parse response from %s", service)
	case KindEmpty:
		return "no results found"
	case KindInvalidInput:
		return "invalid input"
	default:
		return fmt.Sprintf("%s failed", service)
	}
}

// Record is one search-style hit.
type Record struct {
	Title   string `json:"title" jsonschema:"description=Result title"`
	URL     string `json:"url" jsonschema:"description=Absolute link to the result"`
	Snippet string `json:"snippet,omitempty" jsonschema:"description=Short excerpt shown by the upstream service"`
}

// Bounded returns a copy of r with every field cut to its budget.
func (r Record) Bounded() Record {
	return Record{
		Title:   utils.TruncateRunes(r.Title, MaxTitleRunes),
		URL:     utils.TruncateRunes(r.URL, MaxURLRunes),
		Snippet: utils.TruncateRunes(r.Snippet, MaxSnippetRunes),
	}
}

// Cap bounds every record and returns at most limit of them. The returned
// slice is never nil so that JSON encodes it as [] rather than null.
func Cap(records []Record, limit int) []Record {
	if limit < 0 {
		limit = 0
	}
	n := min(len(records), limit)
	out := make([]Record, 0, n)
	for _, r := range records[:n] {
		out = append(out, r.Bounded())
	}
	return out
}

// BoundQuery trims a query echo to MaxQueryRunes.
func BoundQuery(q string) string {
	return utils.TruncateRunes(q, MaxQueryRunes)
}

// BoundURL trims a URL echo to MaxURLRunes.
func BoundURL(u string) string {
	return utils.TruncateRunes(u, MaxURLRunes)
}
