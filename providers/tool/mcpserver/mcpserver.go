package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leofalp/webscout/providers/status"
	"github.com/leofalp/webscout/providers/tool"
)

// Server exposes a tool catalog over the Model Context Protocol.
type Server struct {
	mcp      *server.MCPServer
	catalog  *tool.Catalog
	reporter status.Reporter
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithReporter attaches reporter to every tool call. Stdout carries the
// protocol, so it must write elsewhere (logs, stderr).
func WithReporter(reporter status.Reporter) Option {
	return func(s *Server) {
		s.reporter = reporter
	}
}

// WithLogger sets the logger for call records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New registers every tool of catalog on a fresh MCP server.
func New(name string, version string, catalog *tool.Catalog, opts ...Option) (*Server, error) {
	s := &Server{
		mcp:      server.NewMCPServer(name, version, server.WithToolCapabilities(false)),
		catalog:  catalog,
		reporter: status.Nop,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range catalog.List() {
		info := t.ToolInfo()
		schema, err := json.Marshal(info.Parameters)
		if err != nil {
			return nil, fmt.Errorf("encoding schema of %s: %w", info.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(info.Name, info.Description, schema), s.handler(t))
	}
	return s, nil
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio speaks the protocol over in and out until ctx is done or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, errLog io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(errLog, "mcp: ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) handler(t tool.GenericTool) server.ToolHandlerFunc {
	name := t.ToolInfo().Name
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			raw, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			args = string(raw)
		}

		ctx = status.ContextWithReporter(ctx, s.reporter)
		out, err := t.Call(ctx, args)
		if err != nil {
			s.logger.WarnContext(ctx, "MCP tool call rejected", slog.String("tool", name), slog.String("error", err.Error()))
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
