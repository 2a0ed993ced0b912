package sequencer

import "math"

// Clock is the wrapping simulation timeline. simTime only moves through
// Advance and the scrub calls; every loop index change is reported once by
// Crossings.
type Clock struct {
	Period float64 // seconds per loop

	simTime      float64
	lastObserved int
	paused       bool
}

// NewClock creates a clock at time zero
func NewClock(period float64) *Clock {
	return &Clock{Period: period}
}

// Advance moves time forward by dt unless paused
func (c *Clock) Advance(dt float64) {
	if !c.paused {
		c.simTime += dt
	}
}

// ScrubBack moves time backward, ignoring pause
func (c *Clock) ScrubBack(amount float64) {
	c.simTime -= amount
}

// ScrubForward moves time forward, ignoring pause
func (c *Clock) ScrubForward(amount float64) {
	c.simTime += amount
}

func (c *Clock) SetPaused(p bool) {
	c.paused = p
}

func (c *Clock) Paused() bool {
	return c.paused
}

func (c *Clock) Time() float64 {
	return c.simTime
}

// LoopIndex is floor(simTime / Period)
func (c *Clock) LoopIndex() int {
	return int(math.Floor(c.simTime / c.Period))
}

// Wrapped returns simTime mod Period, always in [0, Period)
func (c *Clock) Wrapped() float64 {
	w := math.Mod(c.simTime, c.Period)
	if w < 0 {
		w += c.Period
	}
	return w
}

// Crossings returns how many loop boundaries were crossed since the last call
// and marks them observed. Crossing backwards counts too.
func (c *Clock) Crossings() int {
	idx := c.LoopIndex()
	n := idx - c.lastObserved
	c.lastObserved = idx
	if n < 0 {
		n = -n
	}
	return n
}

// BoundaryCrossed reports whether any boundary was crossed since the last
// check, consuming it
func (c *Clock) BoundaryCrossed() bool {
	return c.Crossings() > 0
}

// Observe marks the current loop as seen without reporting it
func (c *Clock) Observe() {
	c.lastObserved = c.LoopIndex()
}

// MarkerY maps the wrapped time onto [0, height)
func (c *Clock) MarkerY(height int) int {
	return int(c.Wrapped() / c.Period * float64(height))
}

// Phase is the color state machine, one step per boundary
type Phase struct {
	Index int
	Size  int
}

// Step advances by n modulo Size
func (p *Phase) Step(n int) {
	if p.Size <= 0 {
		return
	}
	p.Index = ((p.Index+n)%p.Size + p.Size) % p.Size
}

// Next returns the phase k steps ahead without changing state
func (p Phase) Next(k int) int {
	if p.Size <= 0 {
		return 0
	}
	return ((p.Index+k)%p.Size + p.Size) % p.Size
}
