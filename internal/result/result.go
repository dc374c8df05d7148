// Package result folds the engine's event stream into formatted records
// and one final three-way outcome that drives the process exit code.
package result

import (
	"time"

	"github.com/google/uuid"
	"github.com/harrison/grepline/internal/engine"
	"github.com/harrison/grepline/internal/matcher"
)

// Status is the three-way outcome of a run. Error presence dominates: a
// run with both matches and per-source failures reports StatusError.
type Status int

const (
	StatusMatch Status = iota
	StatusNoMatch
	StatusError
)

// Exit codes follow the grep convention.
const (
	ExitMatch   = 0
	ExitNoMatch = 1
	ExitError   = 2
)

// Record is one structured output line handed to the formatting layer.
type Record struct {
	// Source is the identifier to print. Empty when a single unlabeled
	// source is searched.
	Source string

	// Line is the 1-based line number; 0 when line numbering is off or
	// the record carries no line.
	Line int

	Text  []byte
	Spans []matcher.Span

	// Context marks a context line rather than a match.
	Context bool

	// Separator marks a group separator; no other field is set.
	Separator bool

	// Binary marks the one-line summary for a matching binary source.
	Binary bool

	// CountOnly marks a per-source count record; Count holds the value.
	CountOnly bool
	Count     int
}

// SourceError is one recorded per-source failure.
type SourceError struct {
	Source string
	Err    error
}

// Outcome is the aggregate result of a run.
type Outcome struct {
	// RunID uniquely identifies this invocation, for history and logs.
	RunID string

	// Matches is the total number of selected lines (a matching binary
	// source counts once).
	Matches int

	// Sources is the number of sources that produced at least one event
	// or completed a scan.
	Sources int

	// Errors holds every per-source failure, in occurrence order.
	Errors []SourceError

	// StartedAt and Duration time the run.
	StartedAt time.Time
	Duration  time.Duration
}

// Status reduces the outcome to the three-way contract.
func (o *Outcome) Status() Status {
	switch {
	case len(o.Errors) > 0:
		return StatusError
	case o.Matches > 0:
		return StatusMatch
	default:
		return StatusNoMatch
	}
}

// ExitCode maps Status to the process exit code.
func (o *Outcome) ExitCode() int {
	switch o.Status() {
	case StatusError:
		return ExitError
	case StatusMatch:
		return ExitMatch
	default:
		return ExitNoMatch
	}
}

// RecordWriter receives formatted records in output order.
type RecordWriter interface {
	WriteRecord(Record)
}

// Options configures aggregation.
type Options struct {
	// Label forces source identifiers on every record. It is set when
	// more than one source participates or when the caller asked for
	// filenames explicitly.
	Label bool

	// LineNumbers includes 1-based line numbers on match and context
	// records.
	LineNumbers bool
}

// Aggregator consumes engine events, forwards printable records, and
// accumulates the Outcome. It never fails; errors are data.
type Aggregator struct {
	opts    Options
	writer  RecordWriter
	outcome Outcome
	seen    map[string]bool
}

// NewAggregator creates an Aggregator writing records to w.
func NewAggregator(opts Options, w RecordWriter) *Aggregator {
	return &Aggregator{
		opts:   opts,
		writer: w,
		outcome: Outcome{
			RunID:     uuid.NewString(),
			StartedAt: time.Now(),
		},
		seen: make(map[string]bool),
	}
}

// Consume folds one event into the outcome and, when printable, emits its
// record.
func (a *Aggregator) Consume(ev engine.Event) {
	if ev.Source != "" && !a.seen[ev.Source] {
		a.seen[ev.Source] = true
		a.outcome.Sources++
	}

	switch ev.Kind {
	case engine.EventMatch:
		a.outcome.Matches++
		a.writer.WriteRecord(Record{
			Source: a.label(ev.Source),
			Line:   a.lineNumber(ev.Line),
			Text:   ev.Text,
			Spans:  ev.Spans,
		})

	case engine.EventContext:
		a.writer.WriteRecord(Record{
			Source:  a.label(ev.Source),
			Line:    a.lineNumber(ev.Line),
			Text:    ev.Text,
			Context: true,
		})

	case engine.EventSeparator:
		a.writer.WriteRecord(Record{Separator: true})

	case engine.EventBinaryMatch:
		a.outcome.Matches++
		a.writer.WriteRecord(Record{Source: ev.Source, Binary: true})

	case engine.EventSourceCount:
		a.outcome.Matches += ev.Count
		a.writer.WriteRecord(Record{
			Source:    a.label(ev.Source),
			CountOnly: true,
			Count:     ev.Count,
		})

	case engine.EventSourceError:
		a.outcome.Errors = append(a.outcome.Errors, SourceError{Source: ev.Source, Err: ev.Err})
	}
}

// Finalize closes the outcome and returns it. No further events may be
// consumed afterwards.
func (a *Aggregator) Finalize() *Outcome {
	a.outcome.Duration = time.Since(a.outcome.StartedAt)
	return &a.outcome
}

func (a *Aggregator) label(src string) string {
	if a.opts.Label {
		return src
	}
	return ""
}

func (a *Aggregator) lineNumber(n int) int {
	if a.opts.LineNumbers {
		return n
	}
	return 0
}
