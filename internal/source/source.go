// Package source expands user-supplied paths into an ordered, lazy
// sequence of readable inputs, tolerating per-path failures.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinPath is the sentinel path that selects standard input.
const StdinPath = "-"

// StdinName is the identifier reported for the standard-input source.
const StdinName = "(standard input)"

// ErrIsDirectory is returned for a directory path when recursion is off.
var ErrIsDirectory = errors.New("is a directory")

// SymlinkCycleError marks a directory subtree abandoned because following
// its symlinks led back to an already-visited directory.
type SymlinkCycleError struct {
	Path string
}

func (e *SymlinkCycleError) Error() string {
	return fmt.Sprintf("%s: symlink cycle detected", e.Path)
}

// ResolveError attaches the offending user path to a resolution failure.
type ResolveError struct {
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Source is one unit of searchable input. The stream is opened on demand;
// the opener (LineScanner side) owns it until close.
type Source struct {
	// Name identifies the source in output records and error messages.
	Name string

	open func() (io.ReadCloser, error)
}

// Open returns the source's byte stream. Each call opens a fresh stream
// for file-backed sources; the stdin source yields the same reader.
func (s Source) Open() (io.ReadCloser, error) {
	return s.open()
}

// FileSource is a source backed by a path on disk.
func FileSource(path string) Source {
	return Source{
		Name: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// ReaderSource wraps an arbitrary reader, used for standard input and for
// tests that need sources without touching the filesystem.
func ReaderSource(name string, r io.Reader) Source {
	return Source{
		Name: name,
		open: func() (io.ReadCloser, error) {
			if rc, ok := r.(io.ReadCloser); ok {
				return rc, nil
			}
			return io.NopCloser(r), nil
		},
	}
}

// Item is one step of resolution: either a usable Source or a per-path
// error. Exactly one of the two fields is set.
type Item struct {
	Source Source
	Err    error
}
