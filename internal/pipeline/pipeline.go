// Package pipeline implements C6: the bounded-channel, multi-producer/
// multi-consumer processing engine shared by the hash and verify commands.
// A Producer emits Items into a bounded channel; N workers run a per-item
// Action and send one Result each into a second bounded channel; a single
// Collector consumes results and enforces the keep-going / fail-fast /
// cancellation policy (spec.md §4.6).
//
// Worker/producer lifecycle is grounded on the golang.org/x/sync/errgroup
// pattern used throughout moby-moby and syncthing-syncthing: one errgroup.Group
// owns the producer goroutine and all N worker goroutines, so a single
// Wait() joins everything and a context cancellation (wired to the shared
// cancel.Flag) propagates uniformly. Per-item errors are never returned
// from a goroutine — they are always data sent over the result channel —
// so errgroup's fail-fast Wait() never races with the collector's own
// keep_going decision.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lordmulder/sponge-hash-aes256/internal/applog"
	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
)

// MaxThreads is the hard cap on worker count (spec.md §3).
const MaxThreads = 64

// ShortCircuitThreshold is the file-list size at or below which, when
// neither directory flag is set, paths are preloaded directly into the path
// channel instead of spawning a walker goroutine (spec.md §4.6).
const ShortCircuitThreshold = 1024

// Item is one unit of work pulled off the path channel by a worker.
type Item any

// Result is one outcome a worker sends to the collector. The engine itself
// never inspects a Result — collect is the only thing that interprets it,
// typically via a type assertion back to its own concrete result type —
// so spec.md §4.6's early-exit policy (continue past an error, stop on the
// first one, etc.) lives entirely in the caller-supplied collect closure.
type Result any

// Config configures one pipeline run.
type Config struct {
	// Workers is N, already clamped to [1, MaxThreads] by the caller
	// (DeriveThreadCount does the clamping/derivation spec.md §4.6
	// describes).
	Workers int
	// PathCap is path_chan's capacity (256 when a walker goroutine is
	// used; otherwise the caller should pass exactly the preloaded item
	// count).
	PathCap int
}

// resultCap returns result_chan's capacity: 2N+1 rounded up to the next
// power of two (spec.md §3).
func resultCap(workers int) int {
	n := 2*workers + 1
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Run drives one pipeline instance:
//
//   - produce is called once, in its own goroutine, to feed items into the
//     path channel; it must close the channel it's given when done (the
//     channel itself is created and owned by Run).
//   - action is called once per item, by up to cfg.Workers goroutines
//     concurrently, and must return exactly one Result.
//   - collect is called once, on the calling goroutine, for every Result in
//     emission order from the result channel; it returns true to keep
//     going or false to stop early (spec.md §4.6 "early-exit policy").
//
// Run honors flag: if it observes Aborted it stops promptly and returns
// cancel.ErrAborted; a clean stop (keep_going
// false, collector returns false) transitions flag to Stopped and joins
// all workers before returning nil.
func Run[I Item](
	cfg Config,
	flag *cancel.Flag,
	produce func(pathChan chan<- I, stop func() bool),
	action func(item I) Result,
	collect func(res Result) (keepGoing bool),
) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Workers > MaxThreads {
		cfg.Workers = MaxThreads
	}

	pathChan := make(chan I, cfg.PathCap)
	resultChan := make(chan Result, resultCap(cfg.Workers))

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	stop := func() bool { return flag.State() != cancel.Running }

	// Promptly cancel ctx as soon as the shared flag leaves Running, rather
	// than waiting for the collector to notice on its next received
	// result — this bounds cancellation latency independent of how often
	// results are flowing (spec.md §8 property 8).
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if flag.State() != cancel.Running {
					applog.Tracef("pipeline: flag left RUNNING (%s), cancelling context", flag.State())
					cancelCtx()
					return
				}
			case <-watchDone:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		produce(pathChan, stop)
		return nil
	})

	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			for {
				select {
				case item, ok := <-pathChan:
					if !ok {
						return nil
					}
					select {
					case resultChan <- action(item):
					case <-ctx.Done():
						return nil
					}
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	go func() {
		g.Wait()
		close(resultChan)
	}()

	for res := range resultChan {
		if flag.State() == cancel.Aborted {
			break
		}
		if !collect(res) {
			applog.Tracef("pipeline: collector requested early stop")
			flag.Stop()
			cancelCtx()
			break
		}
	}

	// Drain any remaining in-flight results so worker goroutines blocked on
	// a send can observe ctx.Done()/channel closure and exit, and drain the
	// path channel so a producer blocked on a send can reach its next stop
	// check and close it.
	cancelCtx()
	go func() {
		for range pathChan {
		}
	}()
	for range resultChan {
	}

	if flag.State() == cancel.Aborted {
		return cancel.ErrAborted
	}
	return nil
}

// RunSingleThreaded implements the N=1 degenerate shape: one goroutine
// walks/produces and the calling goroutine hashes and collects inline,
// with no worker pool and no result channel (spec.md §4.6 "Single-threaded
// shape").
func RunSingleThreaded[I Item](
	flag *cancel.Flag,
	produce func(pathChan chan<- I, stop func() bool),
	action func(item I) Result,
	collect func(res Result) (keepGoing bool),
) error {
	pathChan := make(chan I, 1)
	stop := func() bool { return flag.State() != cancel.Running }

	go func() {
		produce(pathChan, stop)
	}()

	for item := range pathChan {
		if flag.State() == cancel.Aborted {
			break
		}
		res := action(item)
		if !collect(res) {
			flag.Stop()
			break
		}
	}

	for range pathChan {
	}

	if flag.State() == cancel.Aborted {
		return cancel.ErrAborted
	}
	return nil
}
