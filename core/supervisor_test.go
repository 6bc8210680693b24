package core

import (
	"context"
	"testing"
	"time"
)

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSupervisor(t *testing.T) (*ModeSupervisor, *ModeSignal, *Lockout) {
	t.Helper()
	signal := NewModeSignal()
	lockout := NewLockout()
	var coords [modeCount]*PermitCoordinator
	for m := Mode(0); m < modeCount; m++ {
		coords[m] = NewPermitCoordinator(m.String(), 1, ReleaseStrict)
	}
	sup, err := NewModeSupervisor(ModeNormal, signal, lockout, coords)
	if err != nil {
		t.Fatal(err)
	}
	return sup, signal, lockout
}

func TestSupervisorStartsHoldingEverything(t *testing.T) {
	sup, _, lockout := newTestSupervisor(t)

	if !lockout.Engaged() {
		t.Error("system must boot locked out")
	}
	for m := Mode(0); m < modeCount; m++ {
		if sup.Coordinator(m).TryAcquireFree() {
			t.Errorf("%v permit should be held by the supervisor at boot", m)
		}
	}
}

func TestSupervisorReleasesStartMode(t *testing.T) {
	sup, _, lockout := newTestSupervisor(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { defer close(done); _ = sup.Run(ctx) }()

	eventually(t, time.Second, "lockout release", func() bool { return !lockout.Engaged() })
	eventually(t, time.Second, "normal permit release", func() bool {
		if sup.Coordinator(ModeNormal).TryAcquireFree() {
			sup.Coordinator(ModeNormal).ReleaseFree()
			return true
		}
		return false
	})
	for _, m := range []Mode{ModeFlash, ModePriorityA, ModePriorityB} {
		if sup.Coordinator(m).TryAcquireFree() {
			t.Errorf("%v permit must stay with the supervisor", m)
		}
	}

	cancel()
	<-done
}

func TestSupervisorHandoffLiveness(t *testing.T) {
	sup, signal, lockout := newTestSupervisor(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { defer close(done); _ = sup.Run(ctx) }()

	eventually(t, time.Second, "initial release", func() bool { return !lockout.Engaged() })

	// No approach task holds the normal permit, so collection finishes
	// immediately and the flash permit must come out.
	signal.Signal(ModeFlash)
	eventually(t, time.Second, "flash permit release", func() bool {
		if sup.Coordinator(ModeFlash).TryAcquireFree() {
			sup.Coordinator(ModeFlash).ReleaseFree()
			return true
		}
		return false
	})
	eventually(t, time.Second, "lockout release after handoff", func() bool { return !lockout.Engaged() })
	if sup.Mode() != ModeFlash {
		t.Errorf("committed mode %v, want %v", sup.Mode(), ModeFlash)
	}

	cancel()
	<-done
}

func TestSupervisorActsOnFreshestMode(t *testing.T) {
	sup, signal, lockout := newTestSupervisor(t)

	// Stand in for an approach task that is mid-crossing: hold the
	// normal permit so collection blocks after the supervisor releases
	// it and we signal a change.
	eventuallyHold := func() {
		eventually(t, time.Second, "task permit", func() bool {
			return sup.Coordinator(ModeNormal).TryAcquireFree()
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { defer close(done); _ = sup.Run(ctx) }()

	eventuallyHold()

	// Two quick requests while collection is stuck on our held permit.
	// Only the freshest may be entered; flash must never get a turn.
	signal.Signal(ModeFlash)
	eventually(t, time.Second, "lockout engage", func() bool { return lockout.Engaged() })
	signal.Signal(ModePriorityB)

	// Let the "task" drop its permit so collection can finish.
	sup.Coordinator(ModeNormal).ReleaseFree()

	eventually(t, time.Second, "priority B release", func() bool {
		if sup.Coordinator(ModePriorityB).TryAcquireFree() {
			sup.Coordinator(ModePriorityB).ReleaseFree()
			return true
		}
		return false
	})
	if sup.Coordinator(ModeFlash).TryAcquireFree() {
		t.Error("stale flash request must not be cycled through")
	}
	if sup.Mode() != ModePriorityB {
		t.Errorf("committed mode %v, want %v", sup.Mode(), ModePriorityB)
	}

	cancel()
	<-done
}
