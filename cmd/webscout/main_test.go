package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/ddgtest"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSearchCommand(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(5)...))

	stdout, stderr, err := execute(t, "", "search", "--delay=0", "--search-url", srv.URL, "-n", "2", "go", "generics")
	if err != nil {
		t.Fatalf("search failed: %v (stderr %s)", err, stderr)
	}

	var out struct {
		result.Outcome
		Query   string          `json:"query"`
		Results []result.Record `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if !out.OK() || out.Query != "go generics" || len(out.Results) != 2 {
		t.Errorf("unexpected output %+v", out)
	}
	for _, want := range []string{"Searching web for: go generics", "Fetching results...", "Found 2 results"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestSearchCommand_Quiet(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(1)...))

	_, stderr, err := execute(t, "", "search", "-q", "--compact", "--delay=0", "--search-url", srv.URL, "x")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if strings.Contains(stderr, "Searching web") {
		t.Errorf("--quiet should suppress status lines, got %q", stderr)
	}
}

func TestPyPICommand_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	stdout, _, err := execute(t, "", "pypi", "-q", "--delay=0", "--pypi-url", srv.URL, "nonexistent-package-xyz")
	if !errors.Is(err, errToolFailed) {
		t.Fatalf("expected errToolFailed, got %v", err)
	}
	if !strings.Contains(stdout, `"error_kind": "empty_result"`) {
		t.Errorf("unexpected stdout %s", stdout)
	}
}

func TestDocsCommand(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(4)...))

	stdout, _, err := execute(t, "", "docs", "-q", "--delay=0", "--search-url", srv.URL, "python", "asyncio", "gather")
	if err != nil {
		t.Fatalf("docs failed: %v", err)
	}
	if got := srv.Queries(); len(got) != 1 || got[0] != "site:docs.python.org asyncio gather" {
		t.Errorf("server saw %v", got)
	}
	if !strings.Contains(stdout, `"source": "docs.python.org"`) {
		t.Errorf("unexpected stdout %s", stdout)
	}

	_, _, err = execute(t, "", "docs", "-q", "rust", "ownership")
	if err == nil || !strings.Contains(err.Error(), "unknown documentation source") {
		t.Errorf("expected unknown source error, got %v", err)
	}
}

func TestToolsCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "tools")
	if err != nil {
		t.Fatalf("tools failed: %v", err)
	}
	for _, name := range []string{"search_web", "read_webpage", "search_mcp_docs", "get_library_info"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("tools output missing %q", name)
		}
	}

	stdout, _, err = execute(t, "", "tools", "--schema", "--compact")
	if err != nil {
		t.Fatalf("tools --schema failed: %v", err)
	}
	var infos []map[string]any
	if err := json.Unmarshal([]byte(stdout), &infos); err != nil || len(infos) != 8 {
		t.Errorf("expected 8 tool infos, got %d (%v)", len(infos), err)
	}
}

func TestCallCommand(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(5)...))
	common := []string{"call", "-q", "--compact", "--delay=0", "--search-url", srv.URL}

	stdout, _, err := execute(t, "", append(common, "search_stackoverflow", `{"query": "channels"}`)...)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !strings.Contains(stdout, `"status":"success"`) {
		t.Errorf("unexpected stdout %s", stdout)
	}

	stdout, _, err = execute(t, `{'query': 'from stdin', 'num_results': 1}`, append(common, "search_web", "-")...)
	if err != nil {
		t.Fatalf("call from stdin failed: %v", err)
	}
	if !strings.Contains(stdout, `"query":"from stdin"`) {
		t.Errorf("unexpected stdout %s", stdout)
	}

	_, _, err = execute(t, "", append(common, "no_such_tool")...)
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("expected unknown tool error, got %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	testCases := [][]string{
		{"tools", "--timeout", "500ms"},
		{"tools", "--log-level", "loud"},
		{"tools", "--log-format", "xml"},
		{"tools", "--search-url", "not a url"},
	}
	for _, args := range testCases {
		if _, _, err := execute(t, "", args...); err == nil {
			t.Errorf("expected a configuration error for %v", args)
		}
	}
}
