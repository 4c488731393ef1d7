// Package cancel implements the tri-state cancellation flag (spec.md §4.8,
// §3 "CancelFlag") shared, read-mostly, across every goroutine in the
// pipeline, plus the SIGINT-driven hard-abort wiring.
package cancel

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrAborted is returned by pipeline runs (and other long-running
// operations) once they observe the shared flag has reached Aborted
// (spec.md §4.8, exit code 130 per spec.md §7).
var ErrAborted = errors.New("aborted")

// State is one of the three cancellation states. Transitions are monotonic:
// Running -> {Stopped, Aborted}; Stopped and Aborted are terminal.
type State int32

const (
	Running State = iota
	Stopped
	Aborted
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Flag is the shared tri-state cancellation flag. The zero value is ready
// to use and starts in Running.
type Flag struct {
	v atomic.Int32
}

// State returns the current state.
func (f *Flag) State() State {
	return State(f.v.Load())
}

// Running reports whether the flag is still in the Running state. The digest
// driver (internal/digestio) polls this before every read or line; the
// sponge core (spongehash) takes no flag and does not poll it between blocks.
func (f *Flag) Running() bool {
	return f.State() == Running

}

// Transition attempts to move the flag from Running to to. Moving
// Running->Running, or repeating a transition to the same terminal state
// the flag is already in, is a no-op that returns nil. Any other requested
// transition (e.g. Stopped->Running, or Stopped->Aborted) is an error and
// leaves the flag unchanged.
func (f *Flag) Transition(to State) error {
	for {
		cur := State(f.v.Load())
		if cur == to {
			return nil
		}
		if cur != Running {
			return fmt.Errorf("cancel: invalid transition %s -> %s", cur, to)
		}
		if f.v.CompareAndSwap(int32(cur), int32(to)) {
			return nil
		}
	}
}

// Stop transitions Running -> Stopped. It is a no-op if already Stopped or
// Aborted (stopping before being aborted is fine and non-error, per
// spec.md §4.8).
func (f *Flag) Stop() {
	for {
		cur := State(f.v.Load())
		if cur != Running {
			return
		}
		if f.v.CompareAndSwap(int32(cur), int32(Stopped)) {
			return
		}
	}
}

// Abort transitions Running -> Aborted. If the run has already reached a
// terminal state (Stopped, because it finished cleanly just before the
// signal landed, or Aborted already) this is a graceful no-op, not an
// error: per spec.md §4.8, "stopping before being aborted is fine and
// non-error".
func (f *Flag) Abort() {
	f.v.CompareAndSwap(int32(Running), int32(Aborted))
}
