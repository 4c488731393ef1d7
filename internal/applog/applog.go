// Package applog wraps github.com/golang/glog for the diagnostic tracing
// used by the pipeline and walker internals. It is never used for the
// spec-mandated user-facing error line format (§7); that format is written
// directly by printError in cmd/sponge256sum.
package applog

import (
	"flag"

	"github.com/golang/glog"
)

// Init forces glog to log to stderr (so its output interleaves sanely with
// the tool's own stderr lines). It does not parse any glog flags. Call once,
// before spawning any goroutine that logs.
func Init() {
	_ = flag.Set("logtostderr", "true")
}

// Tracef logs a verbose (-v gated) trace line. It mirrors glog.V(1).Infof.
func Tracef(format string, args ...interface{}) {
	if glog.V(1) {
		glog.Infof(format, args...)
	}
}

// Warningf logs an internal warning (distinct from the user-facing
// "[sponge256sum] " error lines emitted by cmd/sponge256sum's printError).
func Warningf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

// Flush flushes any buffered log entries; call before process exit.
func Flush() {
	glog.Flush()
}
