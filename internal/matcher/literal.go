package matcher

import "bytes"

// literalMatcher finds occurrences of a fixed byte sequence. Case folding
// uses an ASCII fold applied to a scratch copy of the line so reported
// spans always index the original bytes.
//
// The zero value (empty needle) matches every line with one zero-length
// span at offset 0.
type literalMatcher struct {
	pattern    string
	needle     []byte
	ignoreCase bool
	wholeWord  bool
}

func newLiteralMatcher(pattern string, opts Options) *literalMatcher {
	needle := []byte(pattern)
	if opts.IgnoreCase {
		needle = asciiFold(needle)
	}
	return &literalMatcher{
		pattern:    pattern,
		needle:     needle,
		ignoreCase: opts.IgnoreCase,
		wholeWord:  opts.WholeWord,
	}
}

func (m *literalMatcher) FindAll(line []byte) []Span {
	if len(m.needle) == 0 {
		return []Span{{Start: 0, End: 0}}
	}

	haystack := line
	if m.ignoreCase {
		haystack = asciiFold(line)
	}

	var spans []Span
	off := 0
	for off <= len(haystack)-len(m.needle) {
		i := bytes.Index(haystack[off:], m.needle)
		if i < 0 {
			break
		}
		start := off + i
		end := start + len(m.needle)
		if !m.wholeWord || onWordBoundary(line, start, end) {
			spans = append(spans, Span{Start: start, End: end})
			off = end
		} else {
			off = start + 1
		}
	}
	return spans
}

func (m *literalMatcher) Pattern() string {
	return m.pattern
}

// onWordBoundary reports whether line[start:end] is not adjacent to a word
// character on either side.
func onWordBoundary(line []byte, start, end int) bool {
	if start > 0 && isWordByte(line[start-1]) {
		return false
	}
	if end < len(line) && isWordByte(line[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z')
}

// asciiFold lowercases ASCII letters into a fresh slice. Byte length is
// preserved, which keeps span offsets valid for the original line.
func asciiFold(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
