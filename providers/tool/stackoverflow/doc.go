// Package stackoverflow implements the search_stackoverflow tool.
package stackoverflow
