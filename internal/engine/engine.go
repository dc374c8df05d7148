// Package engine drives the scan pipeline: it pulls sources from a
// resolver, feeds each one through the line scanner and matcher, and emits
// an ordered event stream for aggregation.
package engine

import (
	"bytes"
	"context"

	"github.com/harrison/grepline/internal/matcher"
	"github.com/harrison/grepline/internal/scanner"
	"github.com/harrison/grepline/internal/source"
)

// Options controls per-run search behavior. The matcher-level options
// (case folding, word boundaries, fixed strings) are resolved earlier, at
// pattern compile time.
type Options struct {
	// Invert selects lines the matcher does not match.
	Invert bool

	// MaxCount stops scanning a source once it produced this many matches.
	// 0 means unlimited.
	MaxCount int

	// Before and After are the context line counts around each match.
	Before int
	After  int

	// CountOnly suppresses per-line events and emits one EventSourceCount
	// per source instead.
	CountOnly bool

	// BinaryCheck classifies a source as binary when a line contains a
	// NUL byte; a matching binary source produces a single summary event.
	BinaryCheck bool

	// ForceText disables binary classification entirely, even when
	// BinaryCheck is set. Every source is searched line by line.
	ForceText bool
}

// Iterator yields resolution items in resolver order.
type Iterator interface {
	Next() (source.Item, bool)
}

// Engine runs one search across a sequence of sources. The compiled
// matcher is the only state shared between sources and is read-only.
type Engine struct {
	matcher matcher.Matcher
	opts    Options
}

// New creates an Engine for the given compiled matcher.
func New(m matcher.Matcher, opts Options) *Engine {
	return &Engine{matcher: m, opts: opts}
}

// Run processes every source in order, sending events to sink. Per-source
// failures become EventSourceError and never abort the run; only context
// cancellation stops it early.
func (e *Engine) Run(ctx context.Context, items Iterator, sink Sink) {
	for {
		if ctx.Err() != nil {
			return
		}
		item, ok := items.Next()
		if !ok {
			return
		}
		if item.Err != nil {
			sink.Consume(Event{Kind: EventSourceError, Err: item.Err})
			continue
		}
		e.searchSource(ctx, item.Source, sink)
	}
}

// sourceState tracks one source's progress through the per-source state
// machine: opening, scanning, then early stop, exhaustion, or abort.
type sourceState struct {
	name        string
	window      *contextWindow
	after       int
	lastEmitted int
	binary      bool
}

func (e *Engine) searchSource(ctx context.Context, src source.Source, sink Sink) {
	rc, err := src.Open()
	if err != nil {
		sink.Consume(Event{Kind: EventSourceError, Source: src.Name, Err: err})
		return
	}
	defer rc.Close()

	st := &sourceState{
		name:   src.Name,
		window: newContextWindow(e.opts.Before),
	}
	sc := scanner.New(rc)
	matches := 0

	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := sc.Line()

		if e.binaryCheckActive() {
			if !st.binary && bytes.IndexByte(line.Text, 0) >= 0 {
				st.binary = true
			}
			if st.binary {
				// Classified sources get no per-line output; keep
				// scanning only to learn whether anything matches.
				if e.selected(line.Text) != nil {
					sink.Consume(Event{Kind: EventBinaryMatch, Source: st.name})
					return
				}
				continue
			}
		}

		if sel := e.selected(line.Text); sel != nil {
			matches++
			if !e.opts.CountOnly {
				e.emitMatch(st, line, sel.spans, sink)
			}
			if e.opts.MaxCount > 0 && matches >= e.opts.MaxCount {
				break
			}
		} else if !e.opts.CountOnly {
			e.bufferOrEmitContext(st, line, sink)
		}
	}

	if err := sc.Err(); err != nil {
		sink.Consume(Event{Kind: EventSourceError, Source: st.name, Err: err})
		return
	}

	if e.opts.CountOnly {
		sink.Consume(Event{Kind: EventSourceCount, Source: st.name, Count: matches})
	}
}

// selection carries the spans of a selected line. Under invert mode a line
// is selected precisely because it has no spans.
type selection struct {
	spans []matcher.Span
}

// selected applies the match-xor-invert rule and returns nil for lines
// that should not be reported.
func (e *Engine) selected(text []byte) *selection {
	spans := e.matcher.FindAll(text)
	if (len(spans) > 0) == e.opts.Invert {
		return nil
	}
	if e.opts.Invert {
		return &selection{}
	}
	return &selection{spans: spans}
}

func (e *Engine) binaryCheckActive() bool {
	return e.opts.BinaryCheck && !e.opts.ForceText && !e.opts.CountOnly
}

func (e *Engine) emitMatch(st *sourceState, line scanner.Line, spans []matcher.Span, sink Sink) {
	if e.opts.Before > 0 || e.opts.After > 0 {
		first := line.Number
		if oldest := st.window.oldest(); oldest > 0 {
			first = oldest
		}
		if st.lastEmitted > 0 && first > st.lastEmitted+1 {
			sink.Consume(Event{Kind: EventSeparator, Source: st.name})
		}
		for _, buffered := range st.window.drain() {
			sink.Consume(Event{
				Kind:   EventContext,
				Source: st.name,
				Line:   buffered.Number,
				Text:   buffered.Text,
			})
		}
	}

	sink.Consume(Event{
		Kind:   EventMatch,
		Source: st.name,
		Line:   line.Number,
		Text:   line.Text,
		Spans:  spans,
	})
	st.lastEmitted = line.Number
	st.after = e.opts.After
}

func (e *Engine) bufferOrEmitContext(st *sourceState, line scanner.Line, sink Sink) {
	if st.after > 0 {
		sink.Consume(Event{
			Kind:   EventContext,
			Source: st.name,
			Line:   line.Number,
			Text:   line.Text,
		})
		st.lastEmitted = line.Number
		st.after--
		return
	}
	if e.opts.Before > 0 {
		st.window.push(line)
	}
}
