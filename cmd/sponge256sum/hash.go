package main

import (
	"os"
	"runtime"
	"sync"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/digestio"
	"github.com/lordmulder/sponge-hash-aes256/internal/itemerr"
	"github.com/lordmulder/sponge-hash-aes256/internal/output"
	"github.com/lordmulder/sponge-hash-aes256/internal/pipeline"
	"github.com/lordmulder/sponge-hash-aes256/internal/sumenv"
	"github.com/lordmulder/sponge-hash-aes256/internal/walk"
)

// digestResult is one pipeline Result for hash mode: either a computed
// digest for a path, or a typed per-item error (spec.md §4.6).
type digestResult struct {
	digest    []byte
	path      string
	displayAs string
	err       *itemerr.Error
}

// runHash drives C5 (walk) + C6 (pipeline) + C9 (output) for the hashing
// (non --check) mode.
func runHash(opts Options, env sumenv.Env, flag *cancel.Flag) (exitCode int, err error) {
	stop := func() bool { return flag.State() != cancel.Running }

	out := output.New(os.Stdout, output.Options{Plain: opts.Plain, Null: opts.Null, Flush: opts.Flush})
	lengthBytes := opts.Length / 8
	walkOpts := walk.Options{DirsAsArg: opts.DirsAsArg, Recursive: opts.Recursive, Strategy: env.DirwalkStrategy}

	var writeErr error
	errCounts := map[itemerr.Kind]int{}

	action := func(path string) pipeline.Result {
		if p, ok := decodeErrPath(path); ok {
			return digestResult{path: p.path, err: p.err}
		}

		if path == "-" {
			digest := make([]byte, lengthBytes)
			e := digestio.DigestStdin(digest, opts.Snail, opts.Info, opts.Mode, flag)
			if e != nil {
				return digestResult{path: path, err: classifyFileErr(path, e)}
			}
			return digestResult{digest: digest, path: path, displayAs: output.StdinName}
		}

		if info, statErr := os.Lstat(path); statErr == nil && info.IsDir() && !opts.All {
			if resolved, derr := os.Stat(path); derr == nil && resolved.IsDir() {
				return digestResult{path: path, err: itemerr.New(itemerr.ObjIsDir, path, nil)}
			}
		}

		digest := make([]byte, lengthBytes)
		e := digestio.DigestFile(digest, opts.Snail, opts.Info, path, opts.Mode, flag)
		if e != nil {
			return digestResult{path: path, err: classifyFileErr(path, e)}
		}
		return digestResult{digest: digest, path: path, displayAs: path}
	}

	collect := func(res pipeline.Result) bool {
		r := res.(digestResult)
		if r.err != nil {
			errCounts[r.err.Kind]++
			printError(opts.Quiet, "%v", r.err)
			return opts.KeepGoing
		}
		if werr := out.WriteRecord(r.digest, r.displayAs); werr != nil {
			writeErr = werr
			return false
		}
		return true
	}

	var runErr error
	switch {
	case len(opts.Files) == 0:
		runErr = pipeline.RunSingleThreaded[string](
			flag,
			func(ch chan<- string, _ func() bool) { defer close(ch); ch <- "-" },
			action,
			collect,
		)
	default:
		runErr = runWithWalker(opts, env, flag, walkOpts, action, collect, stop)
	}

	if ferr := out.Flush(); ferr != nil && writeErr == nil {
		writeErr = ferr
	}

	switch {
	case runErr == cancel.ErrAborted:
		return 130, nil
	case writeErr != nil:
		return 1, writeErr
	case len(errCounts) > 0:
		return 1, nil
	default:
		return 0, nil
	}
}

// runWithWalker chooses between the direct-preload shape (file list small
// enough, no directory flags, single-threaded) and the full walker-fed
// pipeline shape, per spec.md §4.6.
func runWithWalker(
	opts Options,
	env sumenv.Env,
	flag *cancel.Flag,
	walkOpts walk.Options,
	action func(string) pipeline.Result,
	collect func(pipeline.Result) bool,
	stop func() bool,
) error {
	directList := !opts.DirsAsArg && len(opts.Files) <= pipeline.ShortCircuitThreshold

	if !opts.Multi && directList {
		return pipeline.RunSingleThreaded[string](
			flag,
			func(pathChan chan<- string, _ func() bool) {
				defer close(pathChan)
				for _, f := range opts.Files {
					if stop() {
						return
					}
					pathChan <- f
				}
			},
			action,
			collect,
		)
	}

	produce := func(pathChan chan<- string, stopFn func() bool) {
		defer close(pathChan)

		if directList {
			for _, f := range opts.Files {
				if stopFn() {
					return
				}
				pathChan <- f
			}
			return
		}

		walkOut := make(chan walk.Result, 256)
		go walk.Walk(opts.Files, walkOpts, walkOut, stopFn)
		for r := range walkOut {
			if stopFn() {
				for range walkOut {
				}
				return
			}
			if r.Err != nil {
				pathChan <- errPath{path: r.Path, err: r.Err}.sentinel()
				continue
			}
			pathChan <- r.Path
		}
	}

	if !opts.Multi {
		return pipeline.RunSingleThreaded[string](flag, produce, action, collect)
	}

	// An explicit --threads value wins outright; otherwise fall back to the
	// SPONGE256SUM_THREAD_COUNT override; otherwise derive from available
	// parallelism (spec.md §4.6/§6).
	userCount := opts.ThreadsN
	if userCount == 0 {
		userCount = env.ThreadCount
	}
	workers := pipeline.DeriveThreadCount(userCount, runtime.GOMAXPROCS(0))

	pathCap := 256
	if directList {
		pathCap = len(opts.Files)
		if pathCap == 0 {
			pathCap = 1
		}
	}

	return pipeline.Run[string](
		pipeline.Config{Workers: workers, PathCap: pathCap},
		flag,
		produce,
		action,
		collect,
	)
}

// errPath/sentinel/decodeErrPath let the walker's typed per-directory
// errors ride through the same string-typed path channel the happy path
// uses, without needing a second generic instantiation of the pipeline for
// this one case. A dedicated wrapper type would be cleaner in isolation,
// but pipeline.Run is deliberately generic over a single Item type so both
// the walker and verifier share one engine; this sentinel keeps that single
// type parameter intact.
type errPath struct {
	path string
	err  *itemerr.Error
}

const errPathSentinel = "\x00sponge256sum:walk-error\x00"

func (e errPath) sentinel() string {
	errPathRegistry.Lock()
	defer errPathRegistry.Unlock()
	errPathRegistry.m[e.path] = e.err
	return errPathSentinel + e.path
}

func decodeErrPath(item string) (errPath, bool) {
	if len(item) < len(errPathSentinel) || item[:len(errPathSentinel)] != errPathSentinel {
		return errPath{}, false
	}
	path := item[len(errPathSentinel):]
	errPathRegistry.Lock()
	defer errPathRegistry.Unlock()
	err := errPathRegistry.m[path]
	delete(errPathRegistry.m, path)
	return errPath{path: path, err: err}, true
}

var errPathRegistry = struct {
	sync.Mutex
	m map[string]*itemerr.Error
}{m: make(map[string]*itemerr.Error)}

func classifyFileErr(path string, err error) *itemerr.Error {
	if ie, ok := err.(*itemerr.Error); ok {
		return ie
	}
	switch {
	case os.IsNotExist(err):
		return itemerr.New(itemerr.NotFound, path, err)
	case os.IsPermission(err):
		return itemerr.New(itemerr.FileOpen, path, err)
	default:
		return itemerr.New(itemerr.FileRead, path, err)
	}
}
