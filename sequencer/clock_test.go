package sequencer

import "testing"

func TestBoundaryCrossedSixtySeconds(t *testing.T) {
	c := NewClock(8)
	crossed := 0
	for i := 0; i < 60; i++ {
		c.Advance(1)
		if c.BoundaryCrossed() {
			crossed++
		}
	}
	if c.Time() != 60 {
		t.Fatalf("simTime = %v, want 60", c.Time())
	}
	if crossed != 7 {
		t.Errorf("boundary crossed %d times, want 7", crossed)
	}
}

func TestCrossingsIgnoreTickGranularity(t *testing.T) {
	small := NewClock(8)
	total := 0
	for i := 0; i < 80; i++ {
		small.Advance(0.5)
		total += small.Crossings()
	}

	big := NewClock(8)
	big.Advance(40)
	n := big.Crossings()

	if total != 5 || n != 5 {
		t.Errorf("small ticks = %d, one big tick = %d, want 5 each", total, n)
	}
	if big.Crossings() != 0 {
		t.Error("crossings reported twice")
	}

	p := Phase{Size: 7}
	p.Step(n)
	if p.Index != 5 {
		t.Errorf("phase = %d after 5 crossings, want 5", p.Index)
	}
	p.Step(total)
	if p.Index != 3 {
		t.Errorf("phase = %d after 10 crossings, want 3", p.Index)
	}
}

func TestClockPauseAndScrub(t *testing.T) {
	c := NewClock(8)
	c.SetPaused(true)
	c.Advance(1)
	if c.Time() != 0 {
		t.Errorf("paused clock advanced to %v", c.Time())
	}

	c.ScrubForward(0.5)
	if c.Time() != 0.5 {
		t.Errorf("scrub forward while paused: %v, want 0.5", c.Time())
	}

	c.ScrubBack(1.5)
	if c.Time() != -1 {
		t.Errorf("scrub back: %v, want -1", c.Time())
	}
	if w := c.Wrapped(); w != 7 {
		t.Errorf("Wrapped() = %v, want 7", w)
	}
	if !c.BoundaryCrossed() {
		t.Error("scrubbing back past zero should cross a boundary")
	}
}

func TestMarkerY(t *testing.T) {
	c := NewClock(8)
	c.Advance(2)
	if y := c.MarkerY(720); y != 180 {
		t.Errorf("MarkerY = %d, want 180", y)
	}
	c.Advance(6)
	if y := c.MarkerY(720); y != 0 {
		t.Errorf("MarkerY at wrap = %d, want 0", y)
	}
}

func TestObserveSwallowsPendingBoundary(t *testing.T) {
	c := NewClock(8)
	c.Advance(9)
	c.Observe()
	if c.BoundaryCrossed() {
		t.Error("observed boundary reported again")
	}
}

func TestPhaseNext(t *testing.T) {
	p := Phase{Index: 6, Size: 7}
	if p.Next(1) != 0 || p.Next(2) != 1 {
		t.Errorf("Next = %d,%d, want 0,1", p.Next(1), p.Next(2))
	}
	p.Step(-1)
	if p.Index != 5 {
		t.Errorf("Step(-1) = %d, want 5", p.Index)
	}
}
