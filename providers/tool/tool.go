package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/invopop/jsonschema"

	"github.com/leofalp/webscout/core/parse"
	"github.com/leofalp/webscout/internal/utils"
)

// Tool binds a name and description to a typed Go function and carries the
// JSON schemas derived from its input (I) and output (O) types.
// Use [NewTool] to construct one; [GenericTool] hides the type parameters.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

// Info is what a tool advertises to its callers: CLI listings, MCP clients
// and language models.
type Info struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
	Output      *jsonschema.Schema `json:"output,omitempty"`
}

// GenericTool is the type-erased view of a [Tool].
type GenericTool interface {
	// ToolInfo returns the name, description and schemas of the tool.
	ToolInfo() Info

	// Call decodes inputJSON, runs the tool and returns its output as JSON.
	// Undecodable input is an invalid_input *result.Error.
	Call(ctx context.Context, inputJSON string) (string, error)
}

type funcToolOptions struct {
	Description string
}

// WithDescription sets the human-readable description of the tool.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// NewTool constructs a [Tool] named name around function. Schemas for I and
// O are reflected from their json and jsonschema struct tags.
//
// Example:
//
//	searchTool := tool.NewTool("search_web", client.Search,
//	    tool.WithDescription("Search the web."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  SchemaFor[I](),
		Output:      SchemaFor[O](),
		Function:    function,
	}
}

// SchemaFor reflects an inline JSON schema (no $ref, no $defs) for T.
func SchemaFor[T any]() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(new(T))
	schema.Version = ""
	return schema
}

// ToolInfo returns the name, description and schemas of the tool.
func (t *Tool[I, O]) ToolInfo() Info {
	return Info{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Output:      t.Output,
	}
}

// Call decodes inputJSON leniently into I, runs the tool function and
// returns its output encoded as JSON. Undecodable input is an invalid_input
// error; errors from the function are returned unchanged.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	logger := slog.Default().With(slog.String("tool", t.Name))
	timer := utils.NewTimer()

	input, err := parse.Args[I](inputJSON)
	if err != nil {
		logger.DebugContext(ctx, "Tool input rejected", slog.String("error", err.Error()))
		return "", err
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		logger.DebugContext(ctx, "Tool execution failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", timer.Stop()),
		)
		return "", err
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("encoding %s output: %w", t.Name, err)
	}

	logger.DebugContext(ctx, "Tool execution completed", slog.Duration("duration", timer.Stop()))
	return string(outputBytes), nil
}
