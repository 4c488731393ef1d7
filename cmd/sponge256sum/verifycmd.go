package main

import (
	"os"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/output"
	"github.com/lordmulder/sponge-hash-aes256/internal/pipeline"
	"github.com/lordmulder/sponge-hash-aes256/internal/sumenv"
	"github.com/lordmulder/sponge-hash-aes256/internal/verify"
)

// verifyResult adapts verify.Outcome to pipeline.Result.
type verifyResult struct {
	verify.Outcome
}

// runCheck drives C7 (verify) + C6 (pipeline) + C9 (output) for --check
// mode: each of opts.Files (or stdin, if none given) names a checksum file
// whose records are parsed and re-verified against the files they describe
// (spec.md §4.7).
func runCheck(opts Options, env sumenv.Env, flag *cancel.Flag) (exitCode int, err error) {
	out := output.New(os.Stdout, output.Options{Null: opts.Null, Flush: opts.Flush})

	sources := opts.Files
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	mismatches := 0
	errCount := 0
	var writeErr error

	action := func(item verify.LineItem) pipeline.Result {
		return verifyResult{Outcome: verify.Verify(item, opts.Mode, opts.Snail, opts.Info, flag)}
	}

	collect := func(res pipeline.Result) bool {
		r := res.(verifyResult)
		if r.Outcome.Err != nil {
			errCount++
			printError(opts.Quiet, "%v", r.Outcome.Err)
			return opts.KeepGoing
		}
		if !r.Outcome.Matched {
			mismatches++
		}
		if werr := out.WriteStatus(r.Outcome.Name, r.Outcome.Matched); werr != nil {
			writeErr = werr
			return false
		}
		return true
	}

	var runErr error
	for _, src := range sources {
		if flag.State() != cancel.Running {
			break
		}

		r, openErr := verify.OpenChecksumSource(src)
		if openErr != nil {
			errCount++
			printError(opts.Quiet, "%v", openErr)
			if !opts.KeepGoing {
				break
			}
			continue
		}

		runErr = pipeline.RunSingleThreaded[verify.LineItem](
			flag,
			func(ch chan<- verify.LineItem, stop func() bool) {
				defer r.Close()
				verify.ParseLines(r, src, ch, stop)
			},
			action,
			collect,
		)
		if runErr == cancel.ErrAborted || writeErr != nil {
			break
		}
		if !opts.KeepGoing && errCount > 0 {
			break
		}
	}

	if ferr := out.Flush(); ferr != nil && writeErr == nil {
		writeErr = ferr
	}

	switch {
	case runErr == cancel.ErrAborted || flag.State() == cancel.Aborted:
		return 130, nil
	case writeErr != nil:
		return 1, writeErr
	case mismatches > 0 || errCount > 0:
		return 1, nil
	default:
		return 0, nil
	}
}
