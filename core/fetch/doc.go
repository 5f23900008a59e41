// Package fetch implements the single-request HTTP client shared by every web
// tool. A [Fetcher] issues one GET per call with an explicit timeout, keeps at
// most MaxBodySize body bytes, waits a fixed courtesy delay between requests
// and never retries. Every failure is returned inside [Result] as a
// *result.Error tagged network_error, http_error, parse_error or
// invalid_input.
package fetch
