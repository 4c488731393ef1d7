// Package selftest runs the SpongeHash-AES256 built-in self-test (BIST): it
// feeds a large, deterministic amount of PCG64-MCG-generated data through
// the default hash configuration and compares the result against two
// published known-answer digests (spec.md §6).
//
// Grounded on original_source/app/src/self_test.rs's do_self_test/test_runner
// shape (pass loop, per-pass success check, median timing report).
package selftest

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/pcg64mcg"
	"github.com/lordmulder/sponge-hash-aes256/spongehash"
)

const (
	bufferSize   = 4093
	maxIteration = 249989
)

var (
	seedValues = [2]uint64{18446744073709551557, 18446744073709551533}
	// expectedDigests are the published KATs from spec.md §6.
	expectedDigests = [2]string{
		"fbb2f74509d78f4ac30da4a9ed0769efff7fbe5367e363b75572820b8aa83fe0",
		"87dac84f3f485a61bc6cb73f5cf236d68831c7bb8a0cef15cce500cf17a5690e",
	}
)

// ErrAborted is returned when the cancellation flag transitions away from
// RUNNING while a pass is in progress.
var ErrAborted = fmt.Errorf("self-test aborted")

// digestSize matches the KAT digests above: 32 bytes (256 bits), the
// published hex strings being 64 hex characters each.
const digestSize = 32

// runOnePass feeds both seeded PCG64-MCG streams through a default-R, empty-
// info SpongeHash256 instance and reports whether both digests matched.
func runOnePass(flag *cancel.Flag) (bool, error) {
	success := true
	for i, seed := range seedValues {
		src := pcg64mcg.New(seed)
		buf := make([]byte, bufferSize)
		h := spongehash.New(spongehash.Level0, nil)

		for iter := 0; iter < maxIteration; iter++ {
			src.FillBytes(buf)
			h.Update(buf)
			if flag.State() != cancel.Running {
				return false, ErrAborted
			}
		}

		got := h.Digest(digestSize)
		want, err := hex.DecodeString(expectedDigests[i])
		if err != nil {
			return false, fmt.Errorf("selftest: bad embedded KAT: %w", err)
		}
		if subtle.ConstantTimeCompare(got, want) != 1 {
			success = false
		}
	}
	return success, nil
}

// Result summarizes one invocation of Run.
type Result struct {
	Passes     int
	Successes  int
	MedianTime time.Duration
}

// Run executes the self-test `passes` times, writing a human-readable
// progress report to out, honoring keepGoing (continue past a failed pass)
// and the shared cancellation flag.
func Run(out io.Writer, passes int, keepGoing bool, flag *cancel.Flag) (Result, error) {
	if passes < 1 {
		passes = 1
	}
	var res Result
	res.Passes = passes

	durations := make([]time.Duration, 0, passes)

	for pass := 0; pass < passes; pass++ {
		fmt.Fprintf(out, "\nSelf-test pass %d of %d is running...\n", pass+1, passes)

		if flag.State() != cancel.Running {
			return res, ErrAborted
		}

		start := time.Now()
		ok, err := runOnePass(flag)
		elapsed := time.Since(start)

		if err != nil {
			return res, err
		}

		if ok {
			res.Successes++
			fmt.Fprintln(out, "Successful.")
		} else {
			fmt.Fprintln(out, "Failure !!!")
			if !keepGoing {
				return res, nil
			}
		}

		durations = append(durations, elapsed)
	}

	res.MedianTime = median(durations)
	return res, nil
}

func median(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), d...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
