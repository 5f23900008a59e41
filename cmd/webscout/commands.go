package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/webscout/internal/utils"
	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool/docs"
	"github.com/leofalp/webscout/providers/tool/mcpserver"
	"github.com/leofalp/webscout/providers/tool/pypi"
	"github.com/leofalp/webscout/providers/tool/stackoverflow"
	"github.com/leofalp/webscout/providers/tool/webpage"
	"github.com/leofalp/webscout/providers/tool/websearch"
)

func newSearchCmd(a *app) *cobra.Command {
	var numResults int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the web with DuckDuckGo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, websearch.ToolName, websearch.Input{
				Query:      strings.Join(args, " "),
				NumResults: numResults,
			})
		},
	}
	cmd.Flags().IntVarP(&numResults, "num", "n", websearch.MaxResults, "number of results (1-5)")
	return cmd
}

func newReadCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "read <url>",
		Short: "Read a webpage and print its visible text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, webpage.ToolName, webpage.Input{URL: args[0], Format: format})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", webpage.FormatText, "text or markdown")
	return cmd
}

// docsAliases maps the short source names accepted by "webscout docs".
var docsAliases = map[string]docs.Source{
	"langchain": docs.LangChain,
	"langgraph": docs.LangGraph,
	"mcp":       docs.MCP,
	"python":    docs.Python,
}

func newDocsCmd(a *app) *cobra.Command {
	names := make([]string, 0, len(docsAliases))
	for name := range docsAliases {
		names = append(names, name)
	}
	sort.Strings(names)

	return &cobra.Command{
		Use:       "docs <" + strings.Join(names, "|") + "> <query...>",
		Short:     "Search official documentation",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, ok := docsAliases[strings.ToLower(args[0])]
			if !ok {
				return fmt.Errorf("unknown documentation source %q (want one of %s)", args[0], strings.Join(names, ", "))
			}
			return a.run(cmd, source.ToolName, docs.Input{Query: strings.Join(args[1:], " ")})
		},
	}
}

func newStackOverflowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stackoverflow <query...>",
		Aliases: []string{"so"},
		Short:   "Search Stack Overflow",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, stackoverflow.ToolName, stackoverflow.Input{Query: strings.Join(args, " ")})
		},
	}
}

func newPyPICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pypi <package>",
		Short: "Show PyPI metadata for a Python package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, pypi.ToolName, pypi.Input{LibraryName: args[0]})
		},
	}
}

func newToolsCmd(a *app) *cobra.Command {
	var schemas bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := a.catalog.Infos()
			if schemas {
				return a.print(utils.JSONToString(infos))
			}
			for _, info := range infos {
				fmt.Fprintf(a.stdout, "%-24s %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&schemas, "schema", false, "print names, descriptions and JSON schemas as JSON")
	return cmd
}

func newCallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-arguments | -]",
		Short: "Call any tool with JSON arguments (\"-\" reads them from stdin)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "{}"
			if len(args) == 2 {
				input = args[1]
			}
			if input == "-" {
				raw, err := io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("reading arguments: %w", err)
				}
				input = string(raw)
			}
			return a.run(cmd, args[0], input)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve every tool over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := mcpserver.New("webscout", version, a.catalog,
				mcpserver.WithLogger(a.logger),
				mcpserver.WithReporter(status.NewSlogReporter(a.logger)),
			)
			if err != nil {
				return err
			}
			a.logger.Info("Serving MCP over stdio", "tools", a.catalog.Size())
			return srv.ServeStdio(cmd.Context(), a.stdin, a.stdout, a.stderr)
		},
	}
}
