// Package status carries live progress reporting for tool calls.
//
// A [Reporter] travels in the [context.Context] (see [ContextWithReporter]
// and [FromContext]); tools open a [Call] with [Begin], then emit one
// progress event and one completion event. Reporting is purely
// observational: a missing reporter falls back to [Nop] and nothing a
// reporter does affects tool results.
//
// Sinks: [Recorder] (in memory), [SlogReporter] (structured logs),
// [ConsoleReporter] (styled terminal lines) and [Multi] to combine them.
package status
