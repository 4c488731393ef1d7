package main

import (
	"os"

	"github.com/lordmulder/sponge-hash-aes256/internal/cancel"
	"github.com/lordmulder/sponge-hash-aes256/internal/selftest"
	"github.com/lordmulder/sponge-hash-aes256/internal/sumenv"
)

// exitCodeErr lets run propagate a specific process exit code through
// cobra's error-returning RunE without cobra printing anything itself
// (root.go sets SilenceErrors/SilenceUsage so main.go owns all output).
type exitCodeErr struct{ code int }

func (e *exitCodeErr) Error() string { return "" }

// run dispatches to the self-test, verify, or hash driver according to
// opts, after loading the environment-variable overrides (spec.md §6) and
// arming the interrupt handler (spec.md §4.8).
func run(opts Options) error {
	env, err := sumenv.Load()
	if err != nil {
		printError(opts.Quiet, "%v", err)
		return &exitCodeErr{code: 1}
	}

	var flag cancel.Flag
	stopWatch := cancel.WatchInterrupt(&flag)
	defer stopWatch()

	var code int

	switch {
	case opts.SelfTest:
		code, err = runSelfTest(opts, env, &flag)
	case opts.Check:
		code, err = runCheck(opts, env, &flag)
	default:
		code, err = runHash(opts, env, &flag)
	}

	if err != nil {
		printError(opts.Quiet, "%v", err)
		if code == 0 {
			code = 1
		}
	}
	if code == 0 {
		return nil
	}
	return &exitCodeErr{code: code}
}

func runSelfTest(opts Options, env sumenv.Env, flag *cancel.Flag) (int, error) {
	res, err := selftest.Run(os.Stdout, env.SelftestPasses, opts.KeepGoing, flag)
	if err == selftest.ErrAborted {
		return 130, nil
	}
	if err != nil {
		return 1, err
	}
	if res.Successes < res.Passes {
		return 1, nil
	}
	return 0, nil
}
