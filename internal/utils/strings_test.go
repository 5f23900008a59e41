package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestJSONToString verifies compact and indented output.
func TestJSONToString(t *testing.T) {
	input := map[string]int{"a": 1}

	if got := JSONToString(input); got != `{"a":1}` {
		t.Errorf("JSONToString() = %q", got)
	}
	if got := JSONToString(input, true); !strings.Contains(got, "\n  \"a\": 1") {
		t.Errorf("JSONToString(indent) = %q", got)
	}
	if got := JSONToString(make(chan int)); !strings.HasPrefix(got, `{"error":`) {
		t.Errorf("JSONToString(chan) = %q, want error JSON", got)
	}
}

// TestTruncateRunes covers ASCII, multibyte and boundary inputs.
func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"shorter", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"multibyte cut", "héllo wörld", 4, "héll"},
		{"multibyte exact", "日本語", 3, "日本語"},
		{"cjk cut", "日本語テキスト", 2, "日本"},
		{"emoji", "👋🌍🚀", 2, "👋🌍"},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -3, ""},
		{"empty", "", 3, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateRunes(tc.input, tc.max)
			if got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TruncateRunes produced invalid UTF-8: %q", got)
			}
		})
	}
}

// TestExceedsRunes verifies rune, not byte, counting.
func TestExceedsRunes(t *testing.T) {
	if ExceedsRunes("日本語", 3) {
		t.Error("3 runes should not exceed 3 even though it is 9 bytes")
	}
	if !ExceedsRunes("日本語", 2) {
		t.Error("3 runes should exceed 2")
	}
}

// TestTruncateString verifies the suffix and the default length.
func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString() = %q", got)
	}

	got := TruncateString("abcdefghij", 3)
	if got != "abc... (truncated, total: 10 chars)" {
		t.Errorf("TruncateString() = %q", got)
	}

	long := strings.Repeat("x", DefaultMaxStringLength+1)
	if got := TruncateString(long, 0); !strings.HasPrefix(got, strings.Repeat("x", DefaultMaxStringLength)+"...") {
		t.Errorf("TruncateString(maxLen=0) should use the default length, got %d chars", len(got))
	}
}

// TestCollapseWhitespace verifies runs of mixed whitespace become one space.
func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  Hello \n\t  World  again  ")
	if got != "Hello World again" {
		t.Errorf("CollapseWhitespace() = %q", got)
	}
	if got := CollapseWhitespace(" \n\t "); got != "" {
		t.Errorf("CollapseWhitespace(blank) = %q", got)
	}
}
