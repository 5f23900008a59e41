// Package result defines the shapes every web tool hands back to its caller:
// the bounded [Record] used by search-style tools, the closed [Kind] failure
// taxonomy, the [Error] type that carries a kind through Go error chains, and
// the [Outcome] tagged variant embedded in every tool output.
//
// Tools never surface upstream failures as Go errors. They convert them with
// [Failed] (or [FromError]) into an [Outcome] whose Message is a short, fixed,
// human-readable fallback for the kind.
package result
