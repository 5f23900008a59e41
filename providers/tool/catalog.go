package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownTool is returned by [Catalog.Call] for names the catalog does not hold.
var ErrUnknownTool = errors.New("unknown tool")

// Catalog is a thread-safe registry of tools keyed by lowercase name.
// Listing order follows registration order.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tools: make(map[string]GenericTool),
	}
}

// NewCatalogWithTools creates a catalog holding tools.
func NewCatalogWithTools(tools ...GenericTool) *Catalog {
	catalog := NewCatalog()
	catalog.AddTools(tools...)
	return catalog
}

// AddTools registers tools under their ToolInfo().Name. A tool with an
// existing name replaces the old one and keeps its position.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		key := strings.ToLower(t.ToolInfo().Name)
		if _, exists := c.tools[key]; !exists {
			c.order = append(c.order, key)
		}
		c.tools[key] = t
	}
}

// Get retrieves a tool by name (case-insensitive).
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, exists := c.tools[strings.ToLower(name)]
	return t, exists
}

// Has reports whether a tool named name is registered (case-insensitive).
func (c *Catalog) Has(name string) bool {
	_, exists := c.Get(name)
	return exists
}

// Size returns the number of registered tools.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// List returns the tools in registration order.
func (c *Catalog) List() []GenericTool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]GenericTool, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.tools[key])
	}
	return out
}

// Infos returns ToolInfo for every tool in registration order.
func (c *Catalog) Infos() []Info {
	tools := c.List()
	out := make([]Info, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.ToolInfo())
	}
	return out
}

// Call runs the tool named name with JSON input.
func (c *Catalog) Call(ctx context.Context, name string, inputJSON string) (string, error) {
	t, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t.Call(ctx, inputJSON)
}
