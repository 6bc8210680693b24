package core

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Mode is the system operating mode. Exactly one is active at a time from
// the supervisor's perspective.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeFlash
	ModePriorityA
	ModePriorityB

	modeCount
)

var modeNames = [modeCount]string{
	ModeNormal:    "normal",
	ModeFlash:     "flash",
	ModePriorityA: "priority A",
	ModePriorityB: "priority B",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return "mode?"
}

// ModeByName resolves a mode name. Matching is case-insensitive and
// underscores read as spaces, so the single-token forms config files and
// command lines use ("priority_a") resolve to the same mode as the
// canonical "priority A".
func ModeByName(name string) (Mode, bool) {
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))
	for m, n := range modeNames {
		if strings.ToLower(n) == name {
			return Mode(m), true
		}
	}
	return modeCount, false
}

// ModeFromSelect maps the raw 3-bit mode-select input. All lines low means
// normal operation; when the input glitches with several bits set, the
// highest-numbered bit wins so the mapping stays deterministic.
func ModeFromSelect(flash, priorityA, priorityB bool) Mode {
	switch {
	case priorityB:
		return ModePriorityB
	case priorityA:
		return ModePriorityA
	case flash:
		return ModeFlash
	}
	return ModeNormal
}

// ModeSignal is a one-slot, latest-value mailbox for mode changes. A new
// value overwrites an undelivered one, so the supervisor always acts on the
// freshest request and never cycles through a stale mode on the way.
type ModeSignal struct {
	mu sync.Mutex
	ch chan Mode
}

func NewModeSignal() *ModeSignal {
	return &ModeSignal{ch: make(chan Mode, 1)}
}

// Signal posts a mode, replacing any undelivered one.
func (s *ModeSignal) Signal(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.ch:
	default:
	}
	s.ch <- m
}

// Wait blocks until a mode is signaled or ctx is cancelled.
func (s *ModeSignal) Wait(ctx context.Context) (Mode, error) {
	select {
	case m := <-s.ch:
		return m, nil
	case <-ctx.Done():
		return ModeNormal, ctx.Err()
	}
}

// TryWait consumes a pending mode without blocking.
func (s *ModeSignal) TryWait() (Mode, bool) {
	select {
	case m := <-s.ch:
		return m, true
	default:
		return ModeNormal, false
	}
}

// Lockout is the process-wide wind-down flag. True means every approach
// must clear the crossing and go idle. It is a plain atomic flag with
// relaxed semantics: every consumer polls it at dwell granularity rather
// than interrupting off it, so the only requirement is that a set value is
// observed within one polling interval.
//
// The system boots locked out. Whatever happened before the last shutdown
// is unknown and the mode input may still be in debounce, so all traffic is
// cleared and barred from entering until the first mode is committed. Not
// efficient, but certainly safe.
type Lockout struct {
	engaged atomic.Bool
}

func NewLockout() *Lockout {
	l := &Lockout{}
	l.engaged.Store(true)
	return l
}

func (l *Lockout) Set()   { l.engaged.Store(true) }
func (l *Lockout) Clear() { l.engaged.Store(false) }

// Engaged reports whether the wind-down is in effect.
func (l *Lockout) Engaged() bool { return l.engaged.Load() }
