package sequencer

import (
	"time"

	"go-trails/midi"
)

// Recorder captures live events into a delta-timed buffer
type Recorder struct {
	active bool
	buffer []midi.Event
	last   time.Time
}

// Start begins a fresh capture
func (r *Recorder) Start() {
	r.active = true
	r.buffer = r.buffer[:0]
	r.last = time.Time{}
}

// Stop ends the capture. A non-empty buffer is finalized into a Sequence and
// cleared; ok is false when nothing was recorded.
func (r *Recorder) Stop() (seq *Sequence, ok bool) {
	r.active = false
	if len(r.buffer) == 0 {
		return nil, false
	}

	seq, err := NewSequence(r.buffer)
	r.buffer = r.buffer[:0]
	if err != nil {
		// only live events reach the buffer, so this means a bad driver event
		return nil, false
	}
	return seq, true
}

func (r *Recorder) Active() bool {
	return r.active
}

// Len is the number of events captured so far
func (r *Recorder) Len() int {
	return len(r.buffer)
}

// Record appends ev while active. The delta is measured from the previous
// appended event using the event's receive time, or now if it has none.
func (r *Recorder) Record(ev midi.Event, now time.Time) {
	if !r.active {
		return
	}

	at := ev.Time
	if at.IsZero() {
		at = now
	}

	ev.DeltaMs = 0
	if !r.last.IsZero() {
		ev.DeltaMs = max(0, at.Sub(r.last).Milliseconds())
	}
	r.last = at

	r.buffer = append(r.buffer, ev)
}
