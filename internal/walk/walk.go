// Package walk implements C5: enumerating user-supplied paths, optionally
// recursing into directories BFS or DFS, with symlink-aware directory
// detection and (on POSIX) device/inode loop avoidance.
//
// Grounded on syncthing-syncthing/internal/scanner/walk.go's walker shape
// (a single worker function deciding per-entry whether to recurse, skip, or
// emit), generalized to the two traversal strategies and loop-avoidance
// rule spec.md §4.5 requires.
package walk

import (
	"os"
	"path/filepath"

	"github.com/lordmulder/sponge-hash-aes256/internal/applog"
	"github.com/lordmulder/sponge-hash-aes256/internal/itemerr"
	"github.com/lordmulder/sponge-hash-aes256/internal/sumenv"
)

// Result is one item produced by the walker: either a file path to hash, or
// a typed per-directory error.
type Result struct {
	Path string
	Err  *itemerr.Error
}

// Options controls walk semantics, per spec.md §4.5.
type Options struct {
	DirsAsArg bool
	Recursive bool
	Strategy  sumenv.Strategy
}

// Walk enumerates roots according to opts and sends one Result per file (or
// per directory error) to out. It closes out when done. stop, if non-nil,
// is polled between entries/directories and aborts the walk early
// (cancellation, spec.md §4.8).
func Walk(roots []string, opts Options, out chan<- Result, stop func() bool) {
	defer close(out)

	for _, root := range roots {
		if stop != nil && stop() {
			return
		}
		// Each root arg starts its own traversal path: a symlink loop back
		// to one root must not make a sibling root's identical real
		// subtree look "already visited" (spec.md §3's VisitedSet is
		// scoped to "the current traversal path", not the whole run).
		walkRoot(root, opts, out, newVisitedSet(), stop)
	}
}

func walkRoot(root string, opts Options, out chan<- Result, visited *visitedSet, stop func() bool) {
	info, err := os.Lstat(root)
	if err != nil {
		out <- Result{Path: root, Err: itemerr.New(itemerr.NotFound, root, err)}
		return
	}

	isDir, err := resolvesToDir(root, info)
	if err != nil {
		out <- Result{Path: root, Err: itemerr.New(itemerr.WalkOpen, root, err)}
		return
	}

	if !isDir {
		out <- Result{Path: root}
		return
	}

	if !opts.DirsAsArg && !opts.Recursive {
		out <- Result{Path: root, Err: itemerr.New(itemerr.ObjIsDir, root, nil)}
		return
	}

	if id, ok, _ := fileIDFor(root); ok {
		visited = visited.withAdded(id)
	}

	switch opts.Strategy {
	case sumenv.DFS:
		walkDFS(root, opts, out, visited, stop)
	default:
		walkBFS(root, opts, out, visited, stop)
	}
}

// resolvesToDir reports whether path should be treated as a directory: it
// is one outright, or it's a symlink whose target resolves to a directory
// (spec.md §4.5). Plain symlinks to files are walked as files.
func resolvesToDir(path string, info os.FileInfo) (bool, error) {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.IsDir(), nil
	}
	target, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return target.IsDir(), nil
}

// bfsEntry pairs a queued directory with the VisitedSet for the path that
// reached it, so sibling branches of the traversal never observe each
// other's ancestors.
type bfsEntry struct {
	path    string
	visited *visitedSet
}

// walkBFS recurses into subdirectories only after all file entries of the
// current directory have been emitted, level by level (spec.md §4.5).
func walkBFS(root string, opts Options, out chan<- Result, visited *visitedSet, stop func() bool) {
	queue := []bfsEntry{{path: root, visited: visited}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if stop != nil && stop() {
			return
		}

		entries, err := readDir(cur.path)
		if err != nil {
			out <- Result{Path: cur.path, Err: err}
			continue
		}

		var subdirs []bfsEntry
		for _, e := range entries {
			if stop != nil && stop() {
				return
			}
			full := filepath.Join(cur.path, e.Name())
			isDir, derr := resolvesToDir(full, e)
			if derr != nil {
				out <- Result{Path: full, Err: itemerr.New(itemerr.WalkRead, full, derr)}
				continue
			}
			if isDir {
				if !opts.Recursive {
					continue
				}
				childVisited := cur.visited
				if id, ok, _ := fileIDFor(full); ok {
					if cur.visited.contains(id) {
						applog.Warningf("walk: skipping %s, already on this traversal path (loop)", full)
						continue
					}
					childVisited = cur.visited.withAdded(id)
				}
				subdirs = append(subdirs, bfsEntry{path: full, visited: childVisited})
				continue
			}
			out <- Result{Path: full}
		}
		queue = append(queue, subdirs...)
	}
}

// walkDFS recurses into each subdirectory as it is encountered, threading a
// per-branch VisitedSet down by value rather than mutating one shared set.
func walkDFS(dir string, opts Options, out chan<- Result, visited *visitedSet, stop func() bool) {
	if stop != nil && stop() {
		return
	}

	entries, err := readDir(dir)
	if err != nil {
		out <- Result{Path: dir, Err: err}
		return
	}

	for _, e := range entries {
		if stop != nil && stop() {
			return
		}
		full := filepath.Join(dir, e.Name())
		isDir, derr := resolvesToDir(full, e)
		if derr != nil {
			out <- Result{Path: full, Err: itemerr.New(itemerr.WalkRead, full, derr)}
			continue
		}
		if isDir {
			if !opts.Recursive {
				continue
			}
			childVisited := visited
			if id, ok, _ := fileIDFor(full); ok {
				if visited.contains(id) {
					applog.Warningf("walk: skipping %s, already on this traversal path (loop)", full)
					continue
				}
				childVisited = visited.withAdded(id)
			}
			walkDFS(full, opts, out, childVisited, stop)
			continue
		}
		out <- Result{Path: full}
	}
}

// readDir opens and reads one directory's entries, translating failures
// into the WalkOpen/WalkRead taxonomy.
func readDir(dir string) ([]os.FileInfo, *itemerr.Error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, itemerr.New(itemerr.WalkOpen, dir, err)
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, itemerr.New(itemerr.WalkRead, dir, err)
	}
	return entries, nil
}

// visitedSet is an immutable set of FileIDs for directories on one
// traversal path from a root down to the current directory (spec.md §3
// "VisitedSet": scoped to "the current traversal path", not the whole
// run). withAdded returns a new set rather than mutating the receiver, so
// passing it down to one child branch never lets a sibling branch observe
// that child's ancestors — diamond-shaped symlink structures (two
// non-cyclic paths reaching the same real subtree) are walked under each
// branch, and only an actual cycle back to one of *its own* ancestors is
// skipped. A plain map suffices for each set's storage: sets are small
// (bounded by tree depth), read-only after construction, and never shared
// across goroutines, so no LRU/concurrent-map library from the pack fits
// better than this.
type visitedSet struct {
	seen map[FileID]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[FileID]struct{})}
}

func (v *visitedSet) contains(id FileID) bool { _, ok := v.seen[id]; return ok }

// withAdded returns a new visitedSet containing v's entries plus id.
func (v *visitedSet) withAdded(id FileID) *visitedSet {
	clone := make(map[FileID]struct{}, len(v.seen)+1)
	for k := range v.seen {
		clone[k] = struct{}{}
	}
	clone[id] = struct{}{}
	return &visitedSet{seen: clone}
}
