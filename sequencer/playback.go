package sequencer

import (
	"fmt"
	"time"

	"go-trails/midi"
)

// PlaybackState is the scheduler's lifecycle
type PlaybackState int

const (
	Idle PlaybackState = iota
	Loaded
	Playing
	Paused
	Finished
)

func (s PlaybackState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Playback replays a Sequence against wall-clock deadlines. The deadline is
// always the previous emit deadline plus the head event's delta, so timing
// does not drift with tick jitter.
type Playback struct {
	state    PlaybackState
	seq      *Sequence
	next     int // index of the head of the remaining suffix
	deadline time.Time
}

func (p *Playback) State() PlaybackState {
	return p.state
}

// Active reports whether a sequence is loaded, playing or paused
func (p *Playback) Active() bool {
	return p.state == Loaded || p.state == Playing || p.state == Paused
}

// Remaining is the number of events not yet emitted
func (p *Playback) Remaining() int {
	if p.seq == nil {
		return 0
	}
	return p.seq.Len() - p.next
}

// Load puts seq at the cursor with its first event due now. Only valid from
// Idle or Finished; an empty sequence is rejected and the state stays Idle.
func (p *Playback) Load(seq *Sequence, now time.Time) error {
	if p.Active() {
		return fmt.Errorf("load while %s", p.state)
	}
	if seq == nil || seq.Len() == 0 {
		p.reset()
		return ErrEmptySequence
	}

	p.state = Loaded
	p.seq = seq
	p.next = 0
	p.deadline = now
	return nil
}

// Start moves Loaded to Playing
func (p *Playback) Start() bool {
	if p.state != Loaded {
		return false
	}
	p.state = Playing
	return true
}

// Tick emits every event whose deadline has passed
func (p *Playback) Tick(now time.Time, emit func(midi.Event)) int {
	emitted := 0
	for p.state == Playing && !now.Before(p.deadline) {
		emit(p.seq.At(p.next))
		emitted++
		p.next++

		if p.next >= p.seq.Len() {
			p.state = Finished
			p.seq = nil
			break
		}
		p.deadline = p.deadline.Add(time.Duration(p.seq.At(p.next).DeltaMs) * time.Millisecond)
	}
	return emitted
}

// Pause freezes the remaining schedule
func (p *Playback) Pause() bool {
	if p.state != Playing {
		return false
	}
	p.state = Paused
	return true
}

// Resume continues with the head event due immediately; time spent paused is
// not caught up
func (p *Playback) Resume(now time.Time) bool {
	if p.state != Paused {
		return false
	}
	p.state = Playing
	p.deadline = now
	return true
}

// Stop abandons playback
func (p *Playback) Stop() {
	p.reset()
}

func (p *Playback) reset() {
	p.state = Idle
	p.seq = nil
	p.next = 0
	p.deadline = time.Time{}
}
