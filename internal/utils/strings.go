package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// JSONToString serialises object to its JSON representation and returns it as a
// string. When the optional indent argument is true the output is
// pretty-printed with two-space indentation. On marshalling failure it returns
// a JSON-formatted error string rather than panicking.
func JSONToString(object any, indent ...bool) string {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateRunes returns the first maxRunes characters of s. It never cuts
// inside a multibyte sequence. A non-positive maxRunes yields "".
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if len(s) <= maxRunes {
		// byte length bounds rune count
		return s
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// ExceedsRunes reports whether s holds more than maxRunes characters.
func ExceedsRunes(s string, maxRunes int) bool {
	if len(s) <= maxRunes {
		return false
	}
	return utf8.RuneCountInString(s) > maxRunes
}

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original total length so log readers know data was
// omitted. If maxLen is zero or negative, [DefaultMaxStringLength] is used.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if !ExceedsRunes(s, maxLen) {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", TruncateRunes(s, maxLen), utf8.RuneCountInString(s))
}

// CollapseWhitespace replaces every run of Unicode whitespace with a single
// space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
