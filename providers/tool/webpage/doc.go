// Package webpage implements the read_webpage tool: one GET, then visible
// text extraction bounded to a character budget. Plain-text responses are
// passed through with whitespace collapsed; binary bodies are a parse_error.
package webpage
