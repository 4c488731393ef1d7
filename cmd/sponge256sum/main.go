// Command sponge256sum is the SpongeHash-AES256 checksum utility: it
// computes or verifies SpongeHash-AES256 digests of files, directory
// trees, or standard input (spec.md §6).
package main

import (
	"os"

	"github.com/golang/glog"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	defer glog.Flush()

	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	if ec, ok := err.(*exitCodeErr); ok {
		return ec.code
	}

	// A cobra/pflag parse error (unknown flag, bad Args, etc.) never goes
	// through run(), so it hasn't been printed yet.
	printError(false, "%v", err)
	return 1
}
