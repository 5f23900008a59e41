package status

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/webscout/core/result"
	"github.com/leofalp/webscout/internal/utils"
)

// Phase is the position of an event within one tool call.
type Phase string

const (
	// PhaseStart opens a call.
	PhaseStart Phase = "start"
	// PhaseProgress is the single intermediate event.
	PhaseProgress Phase = "progress"
	// PhaseComplete closes a call, successfully or not.
	PhaseComplete Phase = "complete"
)

// Event is one status update. Count and Kind are only meaningful on
// PhaseComplete; Kind is KindNone when the call succeeded.
type Event struct {
	CallID  string
	Tool    string
	Phase   Phase
	Message string
	Count   int
	Kind    result.Kind
	Elapsed time.Duration
}

// Failed reports whether a completion event describes a failure.
func (e Event) Failed() bool {
	return e.Phase == PhaseComplete && e.Kind != result.KindNone
}

// Reporter receives status events. Implementations must be safe for
// concurrent use and must not block for long: they run inline with the tool.
type Reporter interface {
	Report(ctx context.Context, event Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, event Event)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, event Event) {
	f(ctx, event)
}

// Nop discards every event.
var Nop Reporter = ReporterFunc(func(context.Context, Event) {})

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var reporterContextKey = contextKey{}

// FromContext returns the Reporter carried by ctx, or Nop.
func FromContext(ctx context.Context) Reporter {
	if ctx == nil {
		return Nop
	}
	if r, ok := ctx.Value(reporterContextKey).(Reporter); ok && r != nil {
		return r
	}
	return Nop
}

// ContextWithReporter returns a context carrying r.
func ContextWithReporter(ctx context.Context, r Reporter) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, reporterContextKey, r)
}

// Call tracks the three events of one tool invocation. Begin emits the start
// event; Progress and one of Done/Fail emit the rest. Extra calls after the
// completion event are ignored so the start→progress→complete order holds.
type Call struct {
	ctx      context.Context
	reporter Reporter
	id       string
	tool     string
	timer    *utils.Timer

	mu       sync.Mutex
	progress bool
	done     bool
}

// Begin starts a call for tool and reports message as its start event.
func Begin(ctx context.Context, tool string, message string) *Call {
	c := &Call{
		ctx:      ctx,
		reporter: FromContext(ctx),
		id:       uuid.NewString(),
		tool:     tool,
		timer:    utils.NewTimer(),
	}
	c.emit(Event{Phase: PhaseStart, Message: message})
	return c
}

// ID returns the call identifier shared by all three events.
func (c *Call) ID() string {
	return c.id
}

// Progress reports the intermediate event. Only the first call is reported.
func (c *Call) Progress(message string) {
	c.mu.Lock()
	if c.progress || c.done {
		c.mu.Unlock()
		return
	}
	c.progress = true
	c.mu.Unlock()

	c.emit(Event{Phase: PhaseProgress, Message: message})
}

// Done reports a successful completion with count results.
func (c *Call) Done(count int, message string) {
	c.complete(Event{Phase: PhaseComplete, Message: message, Count: count})
}

// Fail reports a failed completion.
func (c *Call) Fail(kind result.Kind, message string) {
	c.complete(Event{Phase: PhaseComplete, Message: message, Kind: kind})
}

// Finish reports the completion matching outcome: Done on success, Fail otherwise.
func (c *Call) Finish(outcome result.Outcome, count int, successMessage string) {
	if outcome.OK() {
		c.Done(count, successMessage)
		return
	}
	c.Fail(outcome.ErrorKind, outcome.Message)
}

func (c *Call) complete(event Event) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()

	event.Elapsed = c.timer.Stop()
	c.emit(event)
}

func (c *Call) emit(event Event) {
	event.CallID = c.id
	event.Tool = c.tool
	if event.Phase != PhaseComplete {
		event.Elapsed = c.timer.Elapsed()
	}
	c.reporter.Report(c.ctx, event)
}
