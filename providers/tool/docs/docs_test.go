package docs

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/ddgtest"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

func newSearcher(source Source, searchURL string) *Searcher {
	fetcher := fetch.New(fetch.WithDelay(0))
	return NewSearcher(source, websearch.NewClient(fetcher, websearch.WithBaseURL(searchURL)), fetcher)
}

func nativePage(links ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><div class=\"results\">")
	for i, href := range links {
		sb.WriteString(`<a class="search-result" href="` + href + `"> Doc ` + string(rune('A'+i)) + ` </a>`)
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

func TestSources(t *testing.T) {
	want := []string{"search_langchain_docs", "search_langgraph_docs", "search_mcp_docs", "search_python_docs"}
	sources := Sources()
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(sources))
	}
	for i, name := range want {
		if sources[i].ToolName != name {
			t.Errorf("source %d = %q, want %q", i, sources[i].ToolName, name)
		}
		if sources[i].Site == "" {
			t.Errorf("source %q has no site", name)
		}
		tl := NewTool(NewSearcher(sources[i], nil, nil))
		if tl.Name != name || !strings.Contains(tl.Description, sources[i].Title) {
			t.Errorf("tool %q description %q", tl.Name, tl.Description)
		}
	}
}

func TestSearch_SiteSources(t *testing.T) {
	for _, source := range []Source{LangGraph, MCP, Python} {
		t.Run(source.ToolName, func(t *testing.T) {
			srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(6)...))
			out, err := newSearcher(source, srv.URL).Search(context.Background(), Input{Query: "checkpointer"})
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}
			if !out.OK() || len(out.Results) != MaxResults {
				t.Fatalf("expected %d results, got %+v", MaxResults, out)
			}
			if got := srv.Queries(); len(got) != 1 || got[0] != "site:"+source.Site+" checkpointer" {
				t.Errorf("server saw %v", got)
			}
			if out.Source != source.Site {
				t.Errorf("source = %q", out.Source)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(3)...))
	for _, source := range Sources() {
		rec := status.NewRecorder()
		out, err := newSearcher(source, srv.URL).Search(status.ContextWithReporter(context.Background(), rec), Input{Query: ""})
		if err != nil {
			t.Fatalf("%s: Search returned error: %v", source.ToolName, err)
		}
		events := rec.Events()
		if len(events) != 3 || events[1].Phase != status.PhaseProgress || !events[2].Failed() {
			t.Errorf("%s: expected start, progress and failed completion, got %+v", source.ToolName, events)
		}
		if out.Results == nil || len(out.Results) != 0 {
			t.Errorf("%s: expected an empty list, got %#v", source.ToolName, out.Results)
		}
		if out.ErrorKind != result.KindEmpty {
			t.Errorf("%s: kind = %q, want empty_result", source.ToolName, out.ErrorKind)
		}
	}
	if n := len(srv.Queries()); n != 0 {
		t.Errorf("empty query reached the network %d times", n)
	}
}

func TestSearch_LangChainNative(t *testing.T) {
	native := ddgtest.Static(t, nativePage("/docs/a", "/docs/b", "https://python.langchain.com/docs/c", "/docs/d"))
	web := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(3)...))

	source := LangChain
	source.SearchURL = native.URL
	out, _ := newSearcher(source, web.URL).Search(context.Background(), Input{Query: "retrievers"})

	if !out.OK() || len(out.Results) != 3 {
		t.Fatalf("expected 3 native results, got %+v", out)
	}
	if out.Results[0].URL != "https://python.langchain.com/docs/a" || out.Results[0].Title != "Doc A" {
		t.Errorf("unexpected first record %+v", out.Results[0])
	}
	if got := native.Queries(); len(got) != 1 || got[0] != "retrievers" {
		t.Errorf("native page saw %v", got)
	}
	if n := len(web.Queries()); n != 0 {
		t.Errorf("fallback must not run when the native page has hits, ran %d times", n)
	}
}

func TestSearch_LangChainFallback(t *testing.T) {
	testCases := []struct {
		name   string
		native *ddgtest.Server
	}{
		{"no native hits", ddgtest.Static(t, nativePage())},
		{"native error", ddgtest.Status(t, http.StatusInternalServerError)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			web := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(2)...))
			source := LangChain
			source.SearchURL = tc.native.URL

			out, _ := newSearcher(source, web.URL).Search(context.Background(), Input{Query: "agents"})
			if !out.OK() || len(out.Results) != 2 {
				t.Fatalf("expected 2 fallback results, got %+v", out)
			}
			if got := web.Queries(); len(got) != 1 || got[0] != "site:python.langchain.com agents" {
				t.Errorf("fallback saw %v", got)
			}
		})
	}
}

func TestSearch_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		web      *ddgtest.Server
		wantKind result.Kind
	}{
		{"no hits", ddgtest.Static(t, ddgtest.Page()), result.KindEmpty},
		{"http error", ddgtest.Status(t, http.StatusTooManyRequests), result.KindHTTP},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := newSearcher(Python, tc.web.URL).Search(context.Background(), Input{Query: "asyncio"})
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}
			if out.ErrorKind != tc.wantKind || out.Results == nil || len(out.Results) != 0 {
				t.Errorf("unexpected output %+v", out)
			}
		})
	}
}

func TestSearch_StatusEvents(t *testing.T) {
	srv := ddgtest.Static(t, ddgtest.Page(ddgtest.Hits(1)...))
	rec := status.NewRecorder()
	ctx := status.ContextWithReporter(context.Background(), rec)

	_, _ = newSearcher(MCP, srv.URL).Search(ctx, Input{Query: "transports"})

	events := rec.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Message != "Searching Model Context Protocol (MCP) docs: transports" {
		t.Errorf("start = %q", events[0].Message)
	}
	if events[2].Message != "Found 1 docs" || events[2].Tool != "search_mcp_docs" {
		t.Errorf("complete = %+v", events[2])
	}
}

func TestParseSearchPage(t *testing.T) {
	page := `<html><body>
<a class="search-result" href="/docs/how_to/">How-to <em>guides</em></a>
<a class="search-result" href="">no link</a>
<a class="search-result" href="/docs/x"></a>
<a class="other" href="/docs/y">not a result</a>
</body></html>`

	records, err := ParseSearchPage([]byte(page), "https://python.langchain.com")
	if err != nil {
		t.Fatalf("ParseSearchPage returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %+v", records)
	}
	if records[0].Title != "How-to guides" || records[0].URL != "https://python.langchain.com/docs/how_to/" {
		t.Errorf("unexpected record %+v", records[0])
	}
}
