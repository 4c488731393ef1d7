// Package sumenv decodes the small set of environment variables
// sponge256sum recognizes (spec.md §6). Each key is parsed once, trimmed,
// at startup; an empty value means "unset" and an invalid one is a fatal
// construction error. The resulting Env value is immutable and shared by
// reference across every goroutine (spec.md §3 "Ownership").
package sumenv

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Strategy selects the directory-walk traversal order (spec.md §4.5).
type Strategy int

const (
	BFS Strategy = iota
	DFS
)

func (s Strategy) String() string {
	if s == DFS {
		return "DFS"
	}
	return "BFS"
}

// Env holds the decoded, validated values of every recognized environment
// variable. The zero value is the all-defaults Env.
type Env struct {
	// ThreadCount is the SPONGE256SUM_THREAD_COUNT override, or 0 for auto.
	ThreadCount int
	// DirwalkStrategy is SPONGE256SUM_DIRWALK_STRATEGY, default BFS.
	DirwalkStrategy Strategy
	// SelftestPasses is SPONGE256SUM_SELFTEST_PASSES, default 3.
	SelftestPasses int
}

const (
	keyThreadCount      = "SPONGE256SUM_THREAD_COUNT"
	keyDirwalkStrategy  = "SPONGE256SUM_DIRWALK_STRATEGY"
	keySelftestPasses   = "SPONGE256SUM_SELFTEST_PASSES"
	maxThreads          = 64
	defaultSelftestPass = 3
)

// Load reads and validates all recognized variables from the process
// environment, returning a construction error (per spec.md §7) on the first
// invalid value encountered.
func Load() (Env, error) {
	env := Env{DirwalkStrategy: BFS, SelftestPasses: defaultSelftestPass}

	if v := trimmed(keyThreadCount); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Env{}, fmt.Errorf("%s: invalid unsigned integer %q", keyThreadCount, v)
		}
		count := int(n)
		if count == 0 {
			env.ThreadCount = 0 // auto
		} else if count > maxThreads {
			env.ThreadCount = maxThreads
		} else {
			env.ThreadCount = count
		}
	}

	if v := trimmed(keyDirwalkStrategy); v != "" {
		switch strings.ToUpper(v) {
		case "BFS":
			env.DirwalkStrategy = BFS
		case "DFS":
			env.DirwalkStrategy = DFS
		default:
			return Env{}, fmt.Errorf("%s: must be BFS or DFS, got %q", keyDirwalkStrategy, v)
		}
	}

	if v := trimmed(keySelftestPasses); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return Env{}, fmt.Errorf("%s: must be a positive integer, got %q", keySelftestPasses, v)
		}
		env.SelftestPasses = int(n)
	}

	return env, nil
}

func trimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
