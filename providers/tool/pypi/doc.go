// Package pypi implements the get_library_info tool on the PyPI JSON API
// (https://pypi.org/pypi/{name}/json).
package pypi
