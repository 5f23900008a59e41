package webtools

import (
	"log/slog"

	"github.com/leofalp/webscout/core/fetch"
	"github.com/leofalp/webscout/internal/config"
	"github.com/leofalp/webscout/providers/tool"
	"github.com/leofalp/webscout/providers/tool/docs"
	"github.com/leofalp/webscout/providers/tool/pypi"
	"github.com/leofalp/webscout/providers/tool/stackoverflow"
	"github.com/leofalp/webscout/providers/tool/webpage"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

// Toolset holds the clients behind the eight web tools. All of them share
// one Fetcher, so the courtesy delay applies across tools.
type Toolset struct {
	Fetcher       *fetch.Fetcher
	Web           *websearch.Client
	Reader        *webpage.Reader
	Docs          []*docs.Searcher
	StackOverflow *stackoverflow.Searcher
	PyPI          *pypi.Client
}

// New builds a Toolset from cfg. logger may be nil.
func New(cfg config.Config, logger *slog.Logger) *Toolset {
	opts := cfg.FetchOptions()
	if logger != nil {
		opts = append(opts, fetch.WithLogger(logger))
	}
	fetcher := fetch.New(opts...)

	web := websearch.NewClient(fetcher, websearch.WithBaseURL(cfg.SearchURL))
	ts := &Toolset{
		Fetcher:       fetcher,
		Web:           web,
		Reader:        webpage.NewReader(fetcher, webpage.WithTimeout(cfg.ReadTimeout), webpage.WithMaxChars(cfg.MaxChars)),
		StackOverflow: stackoverflow.NewSearcher(web),
		PyPI:          pypi.NewClient(fetcher, pypi.WithBaseURL(cfg.PyPIURL)),
	}
	for _, src := range docs.Sources() {
		ts.Docs = append(ts.Docs, docs.NewSearcher(src, web, fetcher))
	}
	return ts
}

// Tools returns the eight tools in their canonical order.
func (ts *Toolset) Tools() []tool.GenericTool {
	tools := []tool.GenericTool{
		websearch.NewTool(ts.Web),
		webpage.NewTool(ts.Reader),
	}
	for _, s := range ts.Docs {
		tools = append(tools, docs.NewTool(s))
	}
	return append(tools,
		stackoverflow.NewTool(ts.StackOverflow),
		pypi.NewTool(ts.PyPI),
	)
}

// Catalog returns a catalog holding [Toolset.Tools].
func (ts *Toolset) Catalog() *tool.Catalog {
	return tool.NewCatalogWithTools(ts.Tools()...)
}

// NewCatalog is shorthand for New(cfg, nil).Catalog().
func NewCatalog(cfg config.Config) *tool.Catalog {
	return New(cfg, nil).Catalog()
}
