package websearch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
)

const (
	// ToolName is the name search_web is advertised under.
	ToolName = "search_web"
	// DefaultBaseURL is DuckDuckGo's JavaScript-free results page.
	DefaultBaseURL = "https://html.duckduckgo.com/html/"
	// MaxResults caps the records returned by one search.
	MaxResults = 5
	// Service names the upstream in failure messages.
	Service = "search service"
)

// Client queries the DuckDuckGo HTML endpoint. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another results page, typically an
// httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewClient builds a Client issuing requests through fetcher.
func NewClient(fetcher *fetch.Fetcher, opts ...Option) *Client {
	c := &Client{fetcher: fetcher, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input is the search_web argument set.
type Input struct {
	Query      string `json:"query" jsonschema:"description=Search query"`
	NumResults int    `json:"num_results,omitempty" jsonschema:"description=Number of results to return (1 to 5; default 5),minimum=1,maximum=5"`
}

// Output is the search_web result.
type Output struct {
	result.Outcome
	Query   string          `json:"query" jsonschema:"description=The query that was searched"`
	Results []result.Record `json:"results" jsonschema:"description=Search hits in upstream order"`
}

// NewTool exposes client.Search as the search_web tool.
func NewTool(client *Client) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		ToolName,
		client.Search,
		tool.WithDescription("Search the web with DuckDuckGo. Returns up to 5 results with title, URL and snippet."),
	)
}

// Search runs search_web. Upstream failures are reported in the Outcome;
// the returned error is always nil.
func (c *Client) Search(ctx context.Context, input Input) (Output, error) {
	query := strings.TrimSpace(input.Query)
	out := Output{Query: result.BoundQuery(query), Results: []result.Record{}}
	call := status.Begin(ctx, ToolName, "Searching web for: "+out.Query)
	call.Progress("Fetching results...")

	if query == "" {
		out.Outcome = result.Failed(result.KindEmpty, Service, 0)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	records, err := c.Query(ctx, query, Limit(input.NumResults))
	out.Results = records
	out.Outcome = result.FromError(err, Service)
	call.Finish(out.Outcome, len(records), fmt.Sprintf("Found %d results", len(records)))
	return out, nil
}

// Limit maps a requested result count onto 1..MaxResults; zero or negative
// means MaxResults.
func Limit(requested int) int {
	if requested <= 0 || requested > MaxResults {
		return MaxResults
	}
	return requested
}

// Site searches query restricted to one site, e.g. "docs.python.org".
func (c *Client) Site(ctx context.Context, site string, query string, limit int) ([]result.Record, error) {
	return c.Query(ctx, "site:"+site+" "+query, limit)
}

// Query fetches one results page and returns at most limit bounded records.
// The slice is never nil. A page with no hits is an empty_result error.
func (c *Client) Query(ctx context.Context, query string, limit int) ([]result.Record, error) {
	searchURL := c.baseURL + "?q=" + url.QueryEscape(result.BoundQuery(query))

	res := c.fetcher.Get(ctx, searchURL)
	if !res.OK() {
		return []result.Record{}, res.Err
	}

	records, err := ParseResults(res.Body, res.URL)
	if err != nil {
		return []result.Record{}, err
	}
	if len(records) == 0 {
		return []result.Record{}, result.Errorf(result.KindEmpty, "no results for %q", utils.TruncateString(query, 80))
	}
	return result.Cap(records, limit), nil
}

// ParseResults extracts hits from a DuckDuckGo HTML results page. Ads and
// entries missing a title or a usable link are skipped.
func ParseResults(body []byte, pageURL string) ([]result.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, result.NewError(result.KindParse, fmt.Errorf("reading results page: %w", err))
	}

	base, _ := url.Parse(pageURL)

	var records []result.Record
	doc.Find("div.result").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		anchor := s.Find("a.result__a").First()
		title := utils.CollapseWhitespace(anchor.Text())
		href, _ := anchor.Attr("href")
		link := ResolveLink(base, href)
		if title == "" || link == "" {
			return
		}
		records = append(records, result.Record{
			Title:   title,
			URL:     link,
			Snippet: utils.CollapseWhitespace(s.Find(".result__snippet").First().Text()),
		})
	})
	return records, nil
}

// ResolveLink turns a result href into an absolute http(s) URL. DuckDuckGo
// redirect links (/l/?uddg=...) are unwrapped to their target. It returns ""
// for anything that does not resolve to http or https.
func ResolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	} else if u.Scheme == "" && strings.HasPrefix(href, "//") {
		u.Scheme = "https"
	}

	if strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return ResolveLink(nil, target)
		}
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
