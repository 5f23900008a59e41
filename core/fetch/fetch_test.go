package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/webscout/core/result"
)

// newTestFetcher disables the courtesy delay so tests stay fast.
func newTestFetcher(opts ...Option) *Fetcher {
	return New(append([]Option{WithDelay(0)}, opts...)...)
}

// TestGet_Success tests a plain HTML fetch.
func TestGet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Hello</h1></body></html>")
	}))
	defer server.Close()

	res := newTestFetcher().Get(context.Background(), server.URL)

	if !res.OK() {
		t.Fatalf("Get failed: %v", res.Err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}
	if !strings.Contains(string(res.Body), "Hello") {
		t.Errorf("unexpected body %q", res.Body)
	}
	if res.ContentType != "text/html" {
		t.Errorf("unexpected content type %q", res.ContentType)
	}
	if res.Failure() != nil || res.Kind() != result.KindNone {
		t.Error("successful result should have no failure")
	}
}

// TestGet_FollowsRedirect tests that URL reports the final location.
func TestGet_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "moved")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	res := newTestFetcher().Get(context.Background(), server.URL+"/old")

	if !res.OK() {
		t.Fatalf("Get failed: %v", res.Err)
	}
	if res.URL != server.URL+"/new" {
		t.Errorf("expected final URL %s/new, got %s", server.URL, res.URL)
	}
}

// TestGet_HTTPError tests that non-2xx statuses map to http_error.
func TestGet_HTTPError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden} {
		t.Run(fmt.Sprintf("Status_%d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			res := newTestFetcher().Get(context.Background(), server.URL)

			if res.OK() {
				t.Fatal("expected failure")
			}
			if res.Kind() != result.KindHTTP {
				t.Errorf("expected http_error, got %q", res.Kind())
			}
			if res.Err.StatusCode != status || res.StatusCode != status {
				t.Errorf("expected status %d, got %d/%d", status, res.Err.StatusCode, res.StatusCode)
			}
		})
	}
}

// TestGet_Unreachable tests that a refused connection is a network_error
// returned well within the timeout.
func TestGet_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	start := time.Now()
	res := newTestFetcher(WithTimeout(10 * time.Second)).Get(context.Background(), deadURL)
	elapsed := time.Since(start)

	if res.OK() {
		t.Fatal("expected failure for closed server")
	}
	if res.Kind() != result.KindNetwork {
		t.Errorf("expected network_error, got %q", res.Kind())
	}
	if elapsed > 10*time.Second {
		t.Errorf("unreachable fetch took %v, expected under the timeout", elapsed)
	}
}

// TestGet_Timeout tests that a slow server hits the per-request timeout.
func TestGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	start := time.Now()
	res := newTestFetcher(WithTimeout(200 * time.Millisecond)).Get(context.Background(), server.URL)
	elapsed := time.Since(start)

	if res.Kind() != result.KindNetwork {
		t.Fatalf("expected network_error, got %q (%v)", res.Kind(), res.Err)
	}
	if !strings.Contains(res.Err.Error(), "timeout") {
		t.Errorf("expected timeout in error, got %v", res.Err)
	}
	if elapsed > time.Second+500*time.Millisecond {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

// TestGetWithTimeout_Override tests that the per-call timeout wins.
func TestGetWithTimeout_Override(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, "late")
	}))
	defer server.Close()

	f := newTestFetcher(WithTimeout(100 * time.Millisecond))
	res := f.GetWithTimeout(context.Background(), server.URL, 2*time.Second)

	if !res.OK() {
		t.Fatalf("expected the longer per-call timeout to succeed, got %v", res.Err)
	}
}

// TestGet_InvalidURL tests rejection before any request.
func TestGet_InvalidURL(t *testing.T) {
	testCases := []string{"", "   ", "ftp://example.com", "file:///etc/passwd", "http://", "::not a url"}

	for _, rawURL := range testCases {
		t.Run(rawURL, func(t *testing.T) {
			res := newTestFetcher().Get(context.Background(), rawURL)
			if res.Kind() != result.KindInvalidInput {
				t.Errorf("expected invalid_input for %q, got %q", rawURL, res.Kind())
			}
		})
	}
}

// TestGet_BodyCap tests that oversized bodies are cut, not rejected.
func TestGet_BodyCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	res := newTestFetcher(WithMaxBodySize(10)).Get(context.Background(), server.URL)

	if !res.OK() {
		t.Fatalf("Get failed: %v", res.Err)
	}
	if len(res.Body) != 10 || !res.Truncated {
		t.Errorf("expected 10 truncated bytes, got %d (truncated=%v)", len(res.Body), res.Truncated)
	}
}

// TestGetJSON tests decoding and parse_error mapping.
func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected Accept %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/bad" {
			fmt.Fprint(w, "{not json")
			return
		}
		fmt.Fprint(w, `{"name":"requests","version":"2.32.3"}`)
	}))
	defer server.Close()

	var payload struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	res := newTestFetcher().GetJSON(context.Background(), server.URL+"/good", &payload)
	if !res.OK() {
		t.Fatalf("GetJSON failed: %v", res.Err)
	}
	if payload.Name != "requests" || payload.Version != "2.32.3" {
		t.Errorf("unexpected payload %+v", payload)
	}

	res = newTestFetcher().GetJSON(context.Background(), server.URL+"/bad", &payload)
	if res.Kind() != result.KindParse {
		t.Errorf("expected parse_error, got %q", res.Kind())
	}
	if len(res.Body) == 0 {
		t.Error("raw body should be kept on parse errors")
	}
}

// TestGet_CourtesyDelay tests that successive requests are spaced by the delay.
func TestGet_CourtesyDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	f := New(WithDelay(150 * time.Millisecond))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if res := f.Get(context.Background(), server.URL); !res.OK() {
			t.Fatalf("request %d failed: %v", i, res.Err)
		}
	}
	elapsed := time.Since(start)

	// first request is immediate, the next two wait one delay each
	if elapsed < 250*time.Millisecond {
		t.Errorf("expected at least two delays between three requests, took %v", elapsed)
	}
}

// TestGet_CanceledDuringDelay tests that a canceled context aborts the wait.
func TestGet_CanceledDuringDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	f := New(WithDelay(time.Hour))
	if res := f.Get(context.Background(), server.URL); !res.OK() {
		t.Fatalf("first request failed: %v", res.Err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := f.Get(ctx, server.URL)
	if res.Kind() != result.KindNetwork {
		t.Errorf("expected network_error, got %q", res.Kind())
	}
}

// TestResult_FailureNilInterface guards against a typed-nil error.
func TestResult_FailureNilInterface(t *testing.T) {
	var res Result
	if err := res.Failure(); err != nil {
		t.Errorf("expected nil error interface, got %#v", err)
	}

	res.Err = result.NewError(result.KindParse, errors.New("x"))
	if err := res.Failure(); !errors.Is(err, &result.Error{Kind: result.KindParse}) {
		t.Errorf("expected parse_error, got %v", err)
	}
}

// TestNew_Defaults tests option normalisation.
func TestNew_Defaults(t *testing.T) {
	opts := New(WithTimeout(-1), WithDelay(-1), WithUserAgent(""), WithMaxBodySize(0)).Options()

	if opts.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", opts.Timeout)
	}
	if opts.Delay != 0 {
		t.Errorf("expected negative delay to disable the delay, got %v", opts.Delay)
	}
	if opts.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", opts.UserAgent)
	}
	if opts.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected default body size, got %d", opts.MaxBodySize)
	}
	if opts.Logger == nil {
		t.Error("expected a default logger")
	}
}
