package engine

import "github.com/harrison/grepline/internal/scanner"

// contextWindow is a bounded ring buffer of the most recent lines, used to
// emit before-context once a match arrives. It never holds more than its
// capacity; the oldest line is evicted first.
type contextWindow struct {
	lines []scanner.Line
	head  int
	count int
}

func newContextWindow(capacity int) *contextWindow {
	return &contextWindow{lines: make([]scanner.Line, capacity)}
}

func (w *contextWindow) push(line scanner.Line) {
	if len(w.lines) == 0 {
		return
	}
	w.lines[(w.head+w.count)%len(w.lines)] = line
	if w.count < len(w.lines) {
		w.count++
	} else {
		w.head = (w.head + 1) % len(w.lines)
	}
}

// drain returns the buffered lines oldest-first and empties the window.
func (w *contextWindow) drain() []scanner.Line {
	out := make([]scanner.Line, 0, w.count)
	for i := 0; i < w.count; i++ {
		out = append(out, w.lines[(w.head+i)%len(w.lines)])
	}
	w.head = 0
	w.count = 0
	return out
}

// oldest returns the line number of the oldest buffered line, or 0 when
// the window is empty.
func (w *contextWindow) oldest() int {
	if w.count == 0 {
		return 0
	}
	return w.lines[w.head].Number
}
