// Package mcpserver serves a [tool.Catalog] as MCP tools over stdio using
// mark3labs/mcp-go. Tool outputs are returned as JSON text content;
// undecodable arguments become MCP error results.
package mcpserver
