// Package websearch implements the search_web tool on top of DuckDuckGo's
// HTML results page. [Client] is also the search backend of the docs and
// stackoverflow tools, which restrict queries with a site: prefix.
package websearch
