package cancel

import (
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
)

// HardAbortTimeout bounds how long uncooperative goroutines can defer
// shutdown after an interrupt, per spec.md §4.8.
const HardAbortTimeout = 10 * time.Second

// WatchInterrupt arms a signal handler for the interrupt signal (SIGINT on
// POSIX, console break on Windows — both delivered through Go's portable
// os.Interrupt). On the first signal it transitions flag to Aborted; it
// then sleeps up to HardAbortTimeout and calls os.Exit(130) if the process
// is still running, so uncooperative goroutines cannot indefinitely defer
// shutdown.
//
// The returned stop func disarms the handler; callers should defer it once
// the run completes normally, mirroring signal.Notify/signal.Stop usage
// elsewhere in the Go ecosystem (and in moby-moby's daemon shutdown path).
func WatchInterrupt(flag *Flag) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	done := make(chan struct{})

	go func() {
		select {
		case <-ch:
			glog.Warningln("interrupt received, aborting")
			flag.Abort()
			select {
			case <-time.After(HardAbortTimeout):
				glog.Errorln("hard-abort timeout elapsed, forcing exit")
				os.Exit(130)
			case <-done:
			}
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
