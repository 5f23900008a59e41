package docs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

// MaxResults caps the records returned by one documentation search.
const MaxResults = 3

// Source is one documentation site.
type Source struct {
	// ToolName is the name the search tool is advertised under.
	ToolName string
	// Title is the human name used in descriptions and status lines.
	Title string
	// Site restricts the web search fallback, e.g. "docs.python.org".
	Site string
	// SearchURL is the site's own search page. When empty only the web
	// search is used.
	SearchURL string
	// BaseURL resolves relative links found on SearchURL.
	BaseURL string
}

var (
	LangChain = Source{
		ToolName:  "search_langchain_docs",
		Title:     "LangChain",
		Site:      "python.langchain.com",
		SearchURL: "https://python.langchain.com/docs/search",
		BaseURL:   "https://python.langchain.com",
	}
	LangGraph = Source{
		ToolName: "search_langgraph_docs",
		Title:    "LangGraph",
		Site:     "langchain-ai.github.io/langgraph",
	}
	MCP = Source{
		ToolName: "search_mcp_docs",
		Title:    "Model Context Protocol (MCP)",
		Site:     "modelcontextprotocol.io",
	}
	Python = Source{
		ToolName: "search_python_docs",
		Title:    "Python",
		Site:     "docs.python.org",
	}
)

// Sources returns the built-in documentation sources in listing order.
func Sources() []Source {
	return []Source{LangChain, LangGraph, MCP, Python}
}

// Searcher looks up one Source.
type Searcher struct {
	source  Source
	web     *websearch.Client
	fetcher *fetch.Fetcher
}

// NewSearcher builds a Searcher for source. fetcher is used for the
// site's own search page; web for the site: fallback.
func NewSearcher(source Source, web *websearch.Client, fetcher *fetch.Fetcher) *Searcher {
	return &Searcher{source: source, web: web, fetcher: fetcher}
}

// Source returns the source this searcher is bound to.
func (s *Searcher) Source() Source {
	return s.source
}

// Input is the argument set shared by every documentation tool.
type Input struct {
	Query string `json:"query" jsonschema:"description=What to look up in the documentation"`
}

// Output is the result shared by every documentation tool.
type Output struct {
	result.Outcome
	Source  string          `json:"source" jsonschema:"description=Documentation site that was searched"`
	Query   string          `json:"query" jsonschema:"description=The query that was searched"`
	Results []result.Record `json:"results" jsonschema:"description=Matching documentation pages"`
}

// NewTool exposes searcher.Search under the source's tool name.
func NewTool(searcher *Searcher) *tool.Tool[Input, Output] {
	src := searcher.Source()
	return tool.NewTool[Input, Output](
		src.ToolName,
		searcher.Search,
		tool.WithDescription(fmt.Sprintf("Search the official %s documentation. Returns up to %d pages with title and URL.", src.Title, MaxResults)),
	)
}

// Search runs the documentation lookup. Upstream failures are reported in
// the Outcome; the returned error is always nil.
func (s *Searcher) Search(ctx context.Context, input Input) (Output, error) {
	query := strings.TrimSpace(input.Query)
	out := Output{Source: s.source.Site, Query: result.BoundQuery(query), Results: []result.Record{}}
	call := status.Begin(ctx, s.source.ToolName, fmt.Sprintf("Searching %s docs: %s", s.source.Title, out.Query))
	call.Progress("Querying documentation...")

	if query == "" {
		out.Outcome = result.Failed(result.KindEmpty, "", 0)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	records, err := s.lookup(ctx, query)
	out.Results = records
	out.Outcome = result.FromError(err, websearch.Service)
	call.Finish(out.Outcome, len(records), fmt.Sprintf("Found %d docs", len(records)))
	return out, nil
}

func (s *Searcher) lookup(ctx context.Context, query string) ([]result.Record, error) {
	if s.source.SearchURL != "" {
		records, err := s.native(ctx, query)
		if err == nil && len(records) > 0 {
			return records, nil
		}
		slog.DebugContext(ctx, "Native docs search gave nothing, trying web search",
			slog.String("source", s.source.Site),
			slog.Any("error", err),
		)
	}
	return s.web.Site(ctx, s.source.Site, query, MaxResults)
}

// native queries the site's own search page.
func (s *Searcher) native(ctx context.Context, query string) ([]result.Record, error) {
	res := s.fetcher.Get(ctx, s.source.SearchURL+"?q="+url.QueryEscape(result.BoundQuery(query)))
	if !res.OK() {
		return nil, res.Err
	}
	records, err := ParseSearchPage(res.Body, s.source.BaseURL)
	if err != nil {
		return nil, err
	}
	return result.Cap(records, MaxResults), nil
}

// ParseSearchPage reads a.search-result links from a documentation search
// page. Relative links are resolved against baseURL.
func ParseSearchPage(body []byte, baseURL string) ([]result.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, result.NewError(result.KindParse, fmt.Errorf("reading docs search page: %w", err))
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, result.NewError(result.KindInvalidInput, fmt.Errorf("docs base url: %w", err))
	}

	var records []result.Record
	doc.Find("a.search-result").Each(func(_ int, sel *goquery.Selection) {
		title := utils.CollapseWhitespace(sel.Text())
		href, _ := sel.Attr("href")
		link := websearch.ResolveLink(base, href)
		if title == "" || link == "" {
			return
		}
		records = append(records, result.Record{Title: title, URL: link})
	})
	return records, nil
}
