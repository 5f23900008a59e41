// Package utils provides small shared helpers used across webscout: rune-safe
// truncation and whitespace normalisation for text that crosses the tool
// boundary, a logging response-body closer and capped body reader for HTTP
// calls, JSON rendering for CLI output, and a simple elapsed-time timer.
package utils
