// Package parse decodes loosely formatted tool arguments. Callers such as
// language models and shell users often send JSON with single quotes,
// trailing commas or schema-style envelopes; [Args] repairs what it can
// before reporting an invalid_input error.
package parse
