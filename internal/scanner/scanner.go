// Package scanner turns a byte stream into a lazy sequence of lines
// without ever buffering the whole input.
package scanner

import (
	"bytes"
	"io"
)

// DefaultChunkSize is the read size used by NewScanner. One chunk is the
// unit of work between suspension points; lines longer than a chunk are
// reassembled across reads.
const DefaultChunkSize = 64 * 1024

// Line is one scanned line. Text never includes the terminator; a missing
// terminator on the final line is reported through Terminated.
type Line struct {
	// Number is the 1-based position of the line within its stream.
	Number int

	// Text is the line content with the trailing "\n" (or "\r\n") removed.
	Text []byte

	// Terminated is false only for a final line with no trailing newline.
	Terminated bool
}

// Scanner reads a stream in bounded chunks and yields one Line per call to
// Scan. Embedded NUL or invalid-encoding bytes are passed through as opaque
// content; only reader failures surface through Err.
//
// Usage follows bufio.Scanner:
//
//	sc := scanner.New(r)
//	for sc.Scan() {
//		line := sc.Line()
//		...
//	}
//	if err := sc.Err(); err != nil {
//		...
//	}
type Scanner struct {
	r       io.Reader
	chunk   []byte
	pending []byte
	line    Line
	num     int
	err     error
	eof     bool
	done    bool
}

// New creates a Scanner with the default chunk size.
func New(r io.Reader) *Scanner {
	return NewSize(r, DefaultChunkSize)
}

// NewSize creates a Scanner reading at most size bytes per read call.
// Sizes below 1 fall back to the default.
func NewSize(r io.Reader, size int) *Scanner {
	if size < 1 {
		size = DefaultChunkSize
	}
	return &Scanner{r: r, chunk: make([]byte, size)}
}

// Scan advances to the next line. It returns false at end of stream or on
// a read error; the two are distinguished by Err.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			s.emit(s.pending[:i], true)
			s.pending = s.pending[i+1:]
			return true
		}

		if s.eof {
			if len(s.pending) == 0 {
				s.done = true
				return false
			}
			s.emit(s.pending, false)
			s.pending = nil
			s.done = true
			return true
		}

		// Suspension point: the only place the scanner blocks.
		n, err := s.r.Read(s.chunk)
		if n > 0 {
			s.pending = append(s.pending, s.chunk[:n]...)
		}
		switch {
		case err == io.EOF:
			s.eof = true
		case err != nil:
			s.err = err
			s.done = true
			return false
		}
	}
}

// Line returns the line produced by the last successful Scan. The returned
// Text is owned by the caller and stays valid across further scans.
func (s *Scanner) Line() Line {
	return s.line
}

// Err returns the first reader error encountered, or nil on clean EOF.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) emit(text []byte, terminated bool) {
	if terminated && len(text) > 0 && text[len(text)-1] == '\r' {
		text = text[:len(text)-1]
	}
	s.num++
	s.line = Line{
		Number:     s.num,
		Text:       append([]byte(nil), text...),
		Terminated: terminated,
	}
}
