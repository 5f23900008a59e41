// Package docs implements the documentation lookup tools: LangChain,
// LangGraph, MCP and Python. Each returns at most three pages. LangChain is
// queried through its own search page first; every source falls back to a
// site-restricted web search.
package docs
