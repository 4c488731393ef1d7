package cancel

import "testing"

func TestFlagDefaultRunning(t *testing.T) {
	var f Flag
	if !f.Running() {
		t.Fatal("zero-value Flag should start Running")
	}
}

func TestFlagStopIsTerminal(t *testing.T) {
	var f Flag
	f.Stop()
	if f.State() != Stopped {
		t.Fatalf("State() = %v, want Stopped", f.State())
	}
	f.Stop() // repeated transition to same terminal state: no-op
	if f.State() != Stopped {
		t.Fatalf("State() = %v after repeated Stop, want Stopped", f.State())
	}
}

func TestFlagAbortIsTerminal(t *testing.T) {
	var f Flag
	f.Abort()
	if f.State() != Aborted {
		t.Fatalf("State() = %v, want Aborted", f.State())
	}
	f.Stop() // a terminal state is not left by a later Stop
	if f.State() != Aborted {
		t.Fatalf("State() = %v after Stop, want Aborted", f.State())
	}
}

func TestFlagAbortAfterStopIsGracefulNoop(t *testing.T) {
	var f Flag
	f.Stop()
	f.Abort()
	if f.State() != Stopped {
		t.Fatalf("State() = %v, want Stopped (abort-after-stop must not error or change state)", f.State())
	}
}

func TestFlagTransitionRejectsInvalid(t *testing.T) {
	var f Flag
	f.Stop()
	if err := f.Transition(Running); err == nil {
		t.Fatal("expected error transitioning Stopped -> Running")
	}
}
