package main

import (
	"fmt"

	"github.com/lordmulder/sponge-hash-aes256/internal/digestio"
	"github.com/lordmulder/sponge-hash-aes256/spongehash"
)

// Options is the fully-validated, immutable set of choices derived from the
// CLI flags (spec.md §6). Building one may fail with a construction error
// (spec.md §7), which is always fatal at startup.
type Options struct {
	Files []string

	Mode      digestio.Mode
	Check     bool
	DirsAsArg bool
	Recursive bool
	All       bool
	KeepGoing bool
	Length    int // bits
	Info      []byte
	Snail     spongehash.SnailLevel
	Quiet     bool
	Plain     bool
	Null      bool
	Multi     bool
	ThreadsN  int // explicit worker count; 0 means "derive"
	Flush     bool
	SelfTest  bool
}

// rawFlags mirrors exactly what pflag parses before any cross-flag
// validation has been applied; Validate turns it into an Options.
type rawFlags struct {
	binary    bool
	text      bool
	check     bool
	dirs      bool
	recursive bool
	all       bool
	keepGoing bool
	length    int
	info      string
	snailN    int
	quiet     bool
	plain     bool
	null      bool
	multi     bool
	threadsN  int
	flush     bool
	selfTest  bool
	files     []string
}

// Validate applies every conflict/clamp rule from spec.md §6/§7 and returns
// a construction error (never a panic) on the first violation.
func (r rawFlags) Validate() (Options, error) {
	if r.binary && r.text {
		return Options{}, fmt.Errorf("--binary and --text are mutually exclusive")
	}

	if r.check {
		if r.length != 0 || r.dirs || r.recursive || r.all || r.plain || r.selfTest {
			return Options{}, fmt.Errorf("--check conflicts with --length, --dirs, --recursive, --all, --plain, --self-test")
		}
	}

	if r.length < 0 {
		return Options{}, fmt.Errorf("--length must be positive")
	}
	if r.length%8 != 0 {
		return Options{}, fmt.Errorf("--length must be divisible by 8")
	}
	if r.length > 8*spongehash.MaxDigestSize {
		return Options{}, fmt.Errorf("--length exceeds the maximum of %d bits", 8*spongehash.MaxDigestSize)
	}

	if len(r.info) > spongehash.MaxInfoSize {
		return Options{}, fmt.Errorf("--info exceeds %d bytes", spongehash.MaxInfoSize)
	}

	if r.snailN < 0 || r.snailN > int(spongehash.MaxSnailLevel) {
		return Options{}, fmt.Errorf("--snail may be given at most %d times", spongehash.MaxSnailLevel)
	}

	mode := digestio.Binary
	if r.text {
		mode = digestio.Text
	}

	length := r.length
	if length == 0 {
		length = 8 * spongehash.DefaultDigestSize
	}

	return Options{
		Files:     r.files,
		Mode:      mode,
		Check:     r.check,
		DirsAsArg: r.dirs || r.recursive,
		Recursive: r.recursive,
		All:       r.all,
		KeepGoing: r.keepGoing,
		Length:    length,
		Info:      []byte(r.info),
		Snail:     spongehash.SnailLevel(r.snailN),
		Quiet:     r.quiet,
		Plain:     r.plain,
		Null:      r.null,
		Multi:     r.multi,
		ThreadsN:  r.threadsN,
		Flush:     r.flush,
		SelfTest:  r.selfTest,
	}, nil
}
