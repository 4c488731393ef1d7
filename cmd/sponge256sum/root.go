package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lordmulder/sponge-hash-aes256/internal/applog"
)

// version is overridden at release-build time via -ldflags; see
// moby-moby's convention of a package-level var stamped by the linker.
var version = "dev"

// errPrefix is the user-visible error-line prefix spec.md §7 mandates.
const errPrefix = "[sponge256sum] "

func newRootCommand() *cobra.Command {
	var raw rawFlags

	cmd := &cobra.Command{
		Use:           "sponge256sum [OPTIONS] [FILES]...",
		Short:         "SpongeHash-AES256 checksum utility",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw.files = args
			opts, err := raw.Validate()
			if err != nil {
				return err
			}
			applog.Init()
			defer applog.Flush()
			return run(opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&raw.binary, "binary", "b", false, "read files in binary mode (default)")
	f.BoolVarP(&raw.text, "text", "t", false, "read files in text mode, normalizing line endings to \\n")
	f.BoolVarP(&raw.check, "check", "c", false, "verify checksums from the given files instead of computing them")
	f.BoolVarP(&raw.dirs, "dirs", "d", false, "allow directories as arguments")
	f.BoolVarP(&raw.recursive, "recursive", "r", false, "recurse into directories (implies --dirs)")
	f.BoolVarP(&raw.all, "all", "a", false, "include non-regular files in directory enumeration")
	f.BoolVarP(&raw.keepGoing, "keep-going", "k", false, "continue past per-item errors")
	f.IntVarP(&raw.length, "length", "l", 0, "digest size in bits (default 256)")
	f.StringVarP(&raw.info, "info", "i", "", "context/info string (<=255 bytes)")
	f.CountVarP(&raw.snailN, "snail", "s", "slow down the permutation (repeatable up to 4 times)")
	f.BoolVarP(&raw.quiet, "quiet", "q", false, "suppress warning/error text on the error stream")
	f.BoolVarP(&raw.plain, "plain", "p", false, "omit the file name from output")
	f.BoolVarP(&raw.null, "null", "0", false, "use NUL instead of LF as the record separator")
	f.BoolVarP(&raw.null, "zero", "z", false, "alias for --null")
	f.BoolVarP(&raw.multi, "multi-threading", "m", false, "enable the multi-threaded pipeline")
	f.IntVar(&raw.threadsN, "threads", 0, "explicit worker count (0 = derive automatically)")
	f.BoolVarP(&raw.flush, "flush", "f", false, "flush stdout after every record")
	f.BoolVarP(&raw.selfTest, "self-test", "T", false, "run the internal self-test and exit")

	return cmd
}

// printError writes one spec.md §7-formatted error line to stderr, unless
// quiet suppresses it.
func printError(quiet bool, format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprint(os.Stderr, errPrefix)
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
}
