package stackoverflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

const (
	// ToolName is the name search_stackoverflow is advertised under.
	ToolName = "search_stackoverflow"
	// Site restricts the underlying web search.
	Site = "stackoverflow.com"
	// MaxResults caps the questions returned by one search.
	MaxResults = 5
)

// Searcher finds Stack Overflow questions through a site-restricted web search.
type Searcher struct {
	web *websearch.Client
}

// NewSearcher builds a Searcher on top of web.
func NewSearcher(web *websearch.Client) *Searcher {
	return &Searcher{web: web}
}

// Input is the search_stackoverflow argument set.
type Input struct {
	Query string `json:"query" jsonschema:"description=Programming question or error message"`
}

// Output is the search_stackoverflow result.
type Output struct {
	result.Outcome
	Query   string          `json:"query" jsonschema:"description=The query that was searched"`
	Results []result.Record `json:"results" jsonschema:"description=Matching questions"`
}

// NewTool exposes searcher.Search as the search_stackoverflow tool.
func NewTool(searcher *Searcher) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		ToolName,
		searcher.Search,
		tool.WithDescription("Search Stack Overflow for programming questions and answers. Returns up to 5 questions with title, URL and snippet."),
	)
}

// Search runs search_stackoverflow. Upstream failures are reported in the
// Outcome; the returned error is always nil.
func (s *Searcher) Search(ctx context.Context, input Input) (Output, error) {
	query := strings.TrimSpace(input.Query)
	out := Output{Query: result.BoundQuery(query), Results: []result.Record{}}
	call := status.Begin(ctx, ToolName, "Searching Stack Overflow: "+out.Query)
	call.Progress("Querying Stack Overflow...")

	if query == "" {
		out.Outcome = result.Failed(result.KindEmpty, "", 0)
		call.Fail(out.ErrorKind, out.Message)
		return out, nil
	}

	records, err := s.web.Site(ctx, Site, query, MaxResults)
	out.Results = records
	out.Outcome = result.FromError(err, websearch.Service)
	call.Finish(out.Outcome, len(records), fmt.Sprintf("Found %d answers", len(records)))
	return out, nil
}
