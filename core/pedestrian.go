package core

import "sync"

// CallState holds the sticky crossing-request flags for one pedestrian
// light. It is created once per light and lives for the program lifetime;
// the call-button input and the light's own phase transitions are the only
// mutators, always through these methods.
//
// A call latched during one Go phase is a promise: it is served at the next
// Go (walk plus beeper) and carried through the following Yield, so a
// pedestrian who stepped off late is not cut off mid-crossing.
type CallState struct {
	mu          sync.Mutex
	active      bool // light is currently running a crossing cycle
	promiseMade bool // call arrived during the current cycle
	oldPromise  bool // promise carried from the previous Go, consumed in Yield
}

// Press latches a crossing request and reports whether it was accepted.
// Calls outside an active cycle are ignored; there is no queued call across
// cycles. Pressing is a flag, not a counter, so repeated presses within one
// cycle are equivalent to one.
func (c *CallState) Press() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return false
	}
	c.promiseMade = true
	return true
}

// BeginCycle marks the light active. Called on the transition into
// Attention.
func (c *CallState) BeginCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
}

// EnterGo consumes a promise latched before this Go began. The decision is
// copied into the carry-over flag and reported to the caller, which grants
// the walk signal.
func (c *CallState) EnterGo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	grant := c.promiseMade
	c.promiseMade = false
	c.oldPromise = grant
	return grant
}

// EnterYield reports whether the walk signal extends through Yield.
func (c *CallState) EnterYield() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.oldPromise
}

// EnterClear ends the crossing window: the carry-over promise is consumed
// and the light goes inactive, so calls arriving from here until the next
// Attention are dropped.
func (c *CallState) EnterClear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oldPromise = false
	c.active = false
}

// Snapshot returns the three flags for inspection.
func (c *CallState) Snapshot() (active, promiseMade, oldPromise bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.promiseMade, c.oldPromise
}
