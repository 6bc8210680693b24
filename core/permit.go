package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ReleasePolicy selects what a coordinator does when a holder releases a
// permit it does not hold.
type ReleasePolicy uint8

const (
	// ReleaseStrict treats a double free as a coordination violation and
	// halts the system. Continuing would silently corrupt the permit
	// count and could later grant two conflicting approaches
	// right-of-way at once. This is the policy for everything owned by
	// the multi-mode supervisor.
	ReleaseStrict ReleasePolicy = iota

	// ReleaseLenient makes the double free a no-op. Only appropriate for
	// single-toggle topologies where held state is not otherwise
	// tracked.
	ReleaseLenient
)

// PermitCoordinator is the fair counting semaphore for one mode class.
// Every unit of crossing occupancy in that mode flows through its permits.
// Waiters are served in arrival order, so a saturated mode class cannot
// starve one lane: two approaches sharing a single permit alternate.
type PermitCoordinator struct {
	name     string
	capacity int64
	sem      *semaphore.Weighted
	policy   ReleasePolicy
}

// NewPermitCoordinator creates a coordinator with the given permit capacity.
// All permits start out available; the supervisor immediately claims them at
// boot via NewHeldHolder so the system comes up locked out.
func NewPermitCoordinator(name string, capacity int64, policy ReleasePolicy) *PermitCoordinator {
	return &PermitCoordinator{
		name:     name,
		capacity: capacity,
		sem:      semaphore.NewWeighted(capacity),
		policy:   policy,
	}
}

func (c *PermitCoordinator) Name() string { return c.name }

// TryAcquireFree grabs a free permit without blocking. Tests and probes use
// it to observe whether the pool is currently drained.
func (c *PermitCoordinator) TryAcquireFree() bool {
	return c.sem.TryAcquire(1)
}

// ReleaseFree returns a permit taken with TryAcquireFree.
func (c *PermitCoordinator) ReleaseFree() {
	c.sem.Release(1)
}

// Holder tracks whether one task currently holds a permit from the
// coordinator. A task holds at most one permit at a time; the flag and the
// semaphore count move together, which is what lets a double free be caught
// instead of silently corrupting the pool.
type Holder struct {
	coord *PermitCoordinator
	held  bool
}

// NewHolder returns a holder that owns nothing yet.
func (c *PermitCoordinator) NewHolder() *Holder {
	return &Holder{coord: c}
}

// NewHeldHolder returns a holder that already owns one permit, without
// blocking. Used by the supervisor at boot, when every permit must start in
// its hands so no approach can enter the crossing before the first mode is
// committed.
func (c *PermitCoordinator) NewHeldHolder() (*Holder, error) {
	if !c.sem.TryAcquire(1) {
		return nil, fmt.Errorf("%s: no free permit at construction", c.name)
	}
	return &Holder{coord: c, held: true}, nil
}

// Acquire blocks until a permit is available, then marks it held. If the
// holder already has a permit this is a no-op. The wait is unbounded: the
// supervisor guarantees eventual release.
func (h *Holder) Acquire(ctx context.Context) error {
	if h.held {
		return nil
	}
	if err := h.coord.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	h.held = true
	return nil
}

// Release returns the permit to the pool. Releasing without holding is a
// no-op under ReleaseLenient and fatal under ReleaseStrict.
func (h *Holder) Release() {
	if !h.held {
		if h.coord.policy == ReleaseLenient {
			return
		}
		Fatalf("permit", "double free of %s permit", h.coord.name)
	}
	h.held = false
	h.coord.sem.Release(1)
}

// Held reports whether the holder currently owns a permit.
func (h *Holder) Held() bool { return h.held }
