// Package tool defines typed, self-describing tools.
//
// [NewTool] wraps a Go function taking an input struct and returning an
// output struct; schemas for both are reflected with invopop/jsonschema so
// the tool can be advertised to MCP clients or language models. [Catalog]
// is a registry that dispatches JSON calls by tool name.
package tool
