// Package display renders aggregated search records for the terminal.
// Coloring follows the grep convention: matches bold red, source names
// magenta, line numbers green.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/grepline/internal/result"
	"github.com/mattn/go-isatty"
)

// colorScheme groups the colors used for record parts.
type colorScheme struct {
	source    *color.Color
	lineNo    *color.Color
	match     *color.Color
	separator *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		source:    color.New(color.FgMagenta),
		lineNo:    color.New(color.FgGreen),
		match:     color.New(color.FgRed, color.Bold),
		separator: color.New(color.FgCyan),
	}
	if !enabled {
		for _, c := range []*color.Color{s.source, s.lineNo, s.match, s.separator} {
			c.DisableColor()
		}
	}
	return s
}

// Printer writes one line of output per record.
type Printer struct {
	out    io.Writer
	scheme *colorScheme
}

// NewPrinter creates a Printer. Color is enabled only when allowed by the
// caller and the writer is a terminal.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	return &Printer{
		out:    out,
		scheme: newColorScheme(!noColor && writerIsTerminal(out)),
	}
}

func writerIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// WriteRecord renders one record. Match and context records are prefixed
// with the source name and line number when present; context records use
// "-" separators instead of ":" so the two stay distinguishable.
func (p *Printer) WriteRecord(rec result.Record) {
	switch {
	case rec.Separator:
		fmt.Fprintln(p.out, p.scheme.separator.Sprint("--"))

	case rec.Binary:
		fmt.Fprintf(p.out, "Binary file %s matches\n", rec.Source)

	case rec.CountOnly:
		if rec.Source != "" {
			fmt.Fprintf(p.out, "%s:%d\n", p.scheme.source.Sprint(rec.Source), rec.Count)
		} else {
			fmt.Fprintf(p.out, "%d\n", rec.Count)
		}

	default:
		sep := ":"
		if rec.Context {
			sep = "-"
		}
		if rec.Source != "" {
			fmt.Fprintf(p.out, "%s%s", p.scheme.source.Sprint(rec.Source), sep)
		}
		if rec.Line > 0 {
			fmt.Fprintf(p.out, "%s%s", p.scheme.lineNo.Sprint(rec.Line), sep)
		}
		p.writeHighlighted(rec)
		fmt.Fprintln(p.out)
	}
}

// writeHighlighted writes the line text with match spans colored.
func (p *Printer) writeHighlighted(rec result.Record) {
	text := rec.Text
	last := 0
	for _, span := range rec.Spans {
		if span.Start > last {
			p.out.Write(text[last:span.Start])
		}
		if span.End > span.Start {
			p.scheme.match.Fprint(p.out, string(text[span.Start:span.End]))
		}
		last = span.End
	}
	if last < len(text) {
		p.out.Write(text[last:])
	}
}
