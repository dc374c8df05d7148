package engine

import "github.com/harrison/grepline/internal/matcher"

// EventKind discriminates the records flowing out of a search run.
type EventKind int

const (
	// EventMatch is a line selected by the matcher (or by invert mode).
	EventMatch EventKind = iota

	// EventContext is a non-selected line emitted because it falls inside
	// a configured context window.
	EventContext

	// EventSeparator marks the gap between two disjoint context groups.
	EventSeparator

	// EventBinaryMatch is the one-time summary for a source classified as
	// binary that contains at least one match.
	EventBinaryMatch

	// EventSourceCount carries the per-source match total in count-only
	// mode.
	EventSourceCount

	// EventSourceError reports a per-source failure. The run continues
	// with the next source.
	EventSourceError
)

// Event is one step of engine output. Which fields are meaningful depends
// on Kind. Events are immutable once produced.
type Event struct {
	Kind EventKind

	// Source identifies the originating source. Empty for resolver-level
	// errors that never produced a source.
	Source string

	// Line is the 1-based line number within the source.
	Line int

	// Text is the line content without its terminator.
	Text []byte

	// Spans are the match locations within Text. Empty for context lines
	// and for matches produced by invert mode.
	Spans []matcher.Span

	// Count is the per-source match total for EventSourceCount.
	Count int

	// Err is set for EventSourceError.
	Err error
}

// Sink consumes the ordered event stream of a run.
type Sink interface {
	Consume(Event)
}
