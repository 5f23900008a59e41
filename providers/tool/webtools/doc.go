// Package webtools assembles the complete web toolset (search, page reading,
// four documentation sources, Stack Overflow and PyPI) from a
// [config.Config].
package webtools
