package source

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Options configures path resolution.
type Options struct {
	// Recursive descends into directories. Without it a directory path is
	// an ErrIsDirectory item.
	Recursive bool

	// FollowSymlinks follows symbolic links during directory walks.
	// Top-level paths given by the user are always followed.
	FollowSymlinks bool
}

// Resolver expands user paths into Sources.
type Resolver struct {
	opts  Options
	stdin io.Reader
}

// NewResolver creates a Resolver reading standard input from os.Stdin.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts, stdin: os.Stdin}
}

// WithStdin overrides the reader used for the stdin sentinel.
func (r *Resolver) WithStdin(rd io.Reader) *Resolver {
	r.stdin = rd
	return r
}

// Resolve returns a lazy iterator over the expansion of paths, in input
// order. Directory walks are depth-first in lexicographic entry order, so
// the sequence is deterministic for a given tree. A failure to resolve one
// path becomes an error Item; iteration continues with the next path.
//
// An empty path list is treated as the stdin sentinel.
func (r *Resolver) Resolve(ctx context.Context, paths []string) *Iter {
	if len(paths) == 0 {
		paths = []string{StdinPath}
	}
	return &Iter{
		ctx:     ctx,
		opts:    r.opts,
		stdin:   r.stdin,
		paths:   paths,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}
}

// Iter is a pull iterator over resolved sources. It holds at most one open
// directory listing per tree level and never pre-reads ahead of the
// consumer.
type Iter struct {
	ctx     context.Context
	opts    Options
	stdin   io.Reader
	paths   []string
	stack   []*walkFrame
	visited map[string]bool // canonical dirs entered during this resolution
	seen    map[string]bool // canonical files already yielded
}

type walkFrame struct {
	dir     string
	entries []fs.DirEntry
	idx     int
}

// Next returns the next Item. It returns ok=false when resolution is
// exhausted or the context is cancelled.
func (it *Iter) Next() (Item, bool) {
	for {
		if it.ctx.Err() != nil {
			return Item{}, false
		}

		if n := len(it.stack); n > 0 {
			frame := it.stack[n-1]
			if frame.idx >= len(frame.entries) {
				it.stack = it.stack[:n-1]
				continue
			}
			entry := frame.entries[frame.idx]
			frame.idx++

			if item, emitted := it.visitEntry(filepath.Join(frame.dir, entry.Name()), entry.Type()); emitted {
				return item, true
			}
			continue
		}

		if len(it.paths) > 0 {
			path := it.paths[0]
			it.paths = it.paths[1:]

			if item, emitted := it.visitRoot(path); emitted {
				return item, true
			}
			continue
		}

		return Item{}, false
	}
}

// visitRoot handles one user-supplied path.
func (it *Iter) visitRoot(path string) (Item, bool) {
	if path == StdinPath {
		return Item{Source: ReaderSource(StdinName, it.stdin)}, true
	}

	info, err := os.Stat(path)
	if err != nil {
		return Item{Err: err}, true
	}

	if info.IsDir() {
		if !it.opts.Recursive {
			return Item{Err: &ResolveError{Path: path, Err: ErrIsDirectory}}, true
		}
		return it.enterDir(path, false)
	}

	// Explicitly named non-directories are yielded as given, including
	// special files the walk would skip.
	if it.alreadySeen(path) {
		return Item{}, false
	}
	return Item{Source: FileSource(path)}, true
}

// visitEntry handles one directory entry during a recursive walk.
func (it *Iter) visitEntry(path string, mode fs.FileMode) (Item, bool) {
	if mode&fs.ModeSymlink != 0 {
		if !it.opts.FollowSymlinks {
			return Item{}, false
		}
		info, err := os.Stat(path)
		if err != nil {
			return Item{Err: err}, true
		}
		if info.IsDir() {
			return it.enterDir(path, true)
		}
		mode = info.Mode()
	}

	if mode.IsDir() {
		return it.enterDir(path, false)
	}

	// Devices, sockets, and named pipes are skipped during walks.
	if !mode.IsRegular() {
		return Item{}, false
	}

	if it.alreadySeen(path) {
		return Item{}, false
	}
	return Item{Source: FileSource(path)}, true
}

// enterDir pushes a walk frame for dir unless its canonical identity was
// already entered during this resolution. A revisit reached through a
// symlink is a cycle; a plain revisit is silently deduplicated.
func (it *Iter) enterDir(dir string, viaSymlink bool) (Item, bool) {
	canon, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return Item{Err: err}, true
	}
	if it.visited[canon] {
		if viaSymlink {
			return Item{Err: &SymlinkCycleError{Path: dir}}, true
		}
		return Item{}, false
	}
	it.visited[canon] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Item{Err: err}, true
	}
	it.stack = append(it.stack, &walkFrame{dir: dir, entries: entries})
	return Item{}, false
}

// alreadySeen records the canonical identity of a file about to be
// yielded and reports whether it was yielded before. Canonicalization
// failures fall back to the literal path.
func (it *Iter) alreadySeen(path string) bool {
	canon, err := filepath.EvalSymlinks(path)
	if err != nil {
		canon = path
	}
	if it.seen[canon] {
		return true
	}
	it.seen[canon] = true
	return false
}
