// Package matcher compiles a search pattern into a reusable, read-only
// matcher that reports every occurrence of the pattern within a line.
package matcher

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPattern is returned by Compile when the supplied expression
// cannot be compiled. It is reported once at startup, never per line.
var ErrInvalidPattern = errors.New("invalid pattern")

// Span is a half-open byte range [Start, End) within a line.
type Span struct {
	Start int
	End   int
}

// Options controls how a pattern is compiled. All options are resolved at
// compile time; matching itself takes no flags.
type Options struct {
	// IgnoreCase folds case before matching (ASCII fold for literal
	// patterns so span offsets stay byte-accurate).
	IgnoreCase bool

	// WholeWord requires matches to sit on word boundaries.
	WholeWord bool

	// FixedString treats the pattern as a literal byte sequence instead of
	// a regular expression.
	FixedString bool
}

// Matcher reports where a compiled pattern occurs within a single line.
// Matchers are immutable after Compile and safe for concurrent use.
type Matcher interface {
	// FindAll returns the ordered, non-overlapping spans at which the
	// pattern occurs in line. The slice is empty when nothing matches.
	// Returned spans always lie within [0, len(line)].
	FindAll(line []byte) []Span

	// Pattern returns the original pattern string the matcher was
	// compiled from.
	Pattern() string
}

// Compile builds a Matcher for the given pattern and options.
//
// The empty pattern compiles to a matcher that matches every line with a
// single zero-length span at offset 0, regardless of other options.
func Compile(pattern string, opts Options) (Matcher, error) {
	if pattern == "" {
		return &literalMatcher{}, nil
	}

	if opts.FixedString {
		return newLiteralMatcher(pattern, opts), nil
	}

	expr := pattern
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if opts.IgnoreCase {
		expr = `(?i)` + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}

	return &regexpMatcher{pattern: pattern, re: re}, nil
}

// regexpMatcher delegates matching to a compiled regular expression.
// Case folding and word boundaries are baked into the expression at
// compile time.
type regexpMatcher struct {
	pattern string
	re      *regexp.Regexp
}

func (m *regexpMatcher) FindAll(line []byte) []Span {
	idx := m.re.FindAllIndex(line, -1)
	if len(idx) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(idx))
	for _, pair := range idx {
		spans = append(spans, Span{Start: pair[0], End: pair[1]})
	}
	return spans
}

func (m *regexpMatcher) Pattern() string {
	return m.pattern
}
