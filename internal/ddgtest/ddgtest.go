// Package ddgtest serves DuckDuckGo-shaped result pages for tests.
package ddgtest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Hit is one organic result on a fixture page.
type Hit struct {
	Title   string
	URL     string
	Snippet string
}

// Page renders hits the way html.duckduckgo.com does, with links wrapped in
// the /l/?uddg= redirect. An ad block is always included first.
func Page(hits ...Hit) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>results</title></head><body><div id="links" class="results">`)
	sb.WriteString(`<div class="result result--ad"><h2 class="result__title"><a class="result__a" href="https://ads.example.com/">Sponsored</a></h2>` +
		`<a class="result__snippet" href="https://ads.example.com/">Buy now</a></div>`)
	for _, h := range hits {
		fmt.Fprintf(&sb, `<div class="result results_links results_links_deep web-result"><div class="links_main links_deep result__body">`+
			`<h2 class="result__title"><a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=%s&amp;rut=abc">%s</a></h2>`+
			`<a class="result__snippet" href="#">%s</a></div></div>`,
			url.QueryEscape(h.URL), html.EscapeString(h.Title), html.EscapeString(h.Snippet))
	}
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

// Hits returns n numbered hits on example.com.
func Hits(n int) []Hit {
	out := make([]Hit, n)
	for i := range out {
		out[i] = Hit{
			Title:   fmt.Sprintf("Result %d", i+1),
			URL:     fmt.Sprintf("https://example.com/page/%d", i+1),
			Snippet: fmt.Sprintf("Snippet number %d", i+1),
		}
	}
	return out
}

// Server records every query it receives and answers with respond.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

// NewServer starts a Server closed automatically at test cleanup.
func NewServer(t testing.TB, respond func(w http.ResponseWriter, query string)) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		s.mu.Lock()
		s.queries = append(s.queries, q)
		s.mu.Unlock()
		respond(w, q)
	}))
	t.Cleanup(s.Close)
	return s
}

// Static answers every query with the same page.
func Static(t testing.TB, page string) *Server {
	return NewServer(t, func(w http.ResponseWriter, _ string) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
}

// Status answers every query with an HTTP error code.
func Status(t testing.TB, code int) *Server {
	return NewServer(t, func(w http.ResponseWriter, _ string) {
		http.Error(w, http.StatusText(code), code)
	})
}

// Queries returns the q parameters received so far.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}
