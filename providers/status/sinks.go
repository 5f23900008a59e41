package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Recorder keeps every event in memory. Useful for tests and for callers
// that render status after the fact.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report appends event.
func (r *Recorder) Report(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ForCall returns the events sharing callID.
func (r *Recorder) ForCall(callID string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.CallID == callID {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans events out to every reporter in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, event Event) {
		for _, r := range reporters {
			if r != nil {
				r.Report(ctx, event)
			}
		}
	})
}

// SlogReporter writes events as structured log records: start and progress
// at debug, successful completion at info, failures at warn.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter wraps logger; nil uses slog.Default().
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

// Report logs event at the level matching its phase and outcome.
func (s *SlogReporter) Report(ctx context.Context, event Event) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("tool", event.Tool),
		slog.String("call_id", event.CallID),
		slog.String("phase", string(event.Phase)),
	}
	if event.Phase == PhaseComplete {
		level = slog.LevelInfo
		attrs = append(attrs,
			slog.Int("count", event.Count),
			slog.Duration("elapsed", event.Elapsed),
		)
		if event.Failed() {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error_kind", event.Kind.String()))
		}
	}
	s.logger.LogAttrs(ctx, level, event.Message, attrs...)
}

// ConsoleReporter prints one styled line per event. Start lines are cyan,
// progress is faint, completion is green on success and yellow on failure.
type ConsoleReporter struct {
	mu       sync.Mutex
	out      io.Writer
	start    lipgloss.Style
	progress lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
}

// NewConsoleReporter writes to out. Colours are dropped automatically when
// out is not a terminal.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	renderer := lipgloss.NewRenderer(out)
	return &ConsoleReporter{
		out:      out,
		start:    renderer.NewStyle().Foreground(lipgloss.Color("6")),
		progress: renderer.NewStyle().Faint(true),
		success:  renderer.NewStyle().Foreground(lipgloss.Color("2")),
		failure:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Report writes one line for event.
func (c *ConsoleReporter) Report(_ context.Context, event Event) {
	var line string
	switch {
	case event.Phase == PhaseStart:
		line = c.start.Render(event.Message)
	case event.Phase == PhaseProgress:
		line = c.progress.Render("→ " + event.Message)
	case event.Failed():
		line = c.failure.Render("✗ " + event.Message)
	default:
		line = c.success.Render("✓ " + event.Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}
